// Package reportstore archives generated reports as JSON objects in a GCS
// bucket so past projections survive restarts and can be listed later.
package reportstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
)

// Kind distinguishes the archived report types.
type Kind string

const (
	KindAnnualReport Kind = "annual_report"
	KindDebtPlan     Kind = "debt_plan"
)

// Entry describes one archived report object.
type Entry struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// envelope is the stored object layout: metadata plus the raw report payload.
type envelope struct {
	Entry
	Payload json.RawMessage `json:"payload"`
}

// Archive stores reports under reports/<year>/<id>.json in a single bucket.
type Archive struct {
	client *storage.Client
	bucket string
}

// NewArchive creates an archive backed by the given bucket. It assumes
// Application Default Credentials are configured.
func NewArchive(ctx context.Context, bucket string) (*Archive, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Archive{client: client, bucket: bucket}, nil
}

// Close releases the underlying storage client.
func (a *Archive) Close() error {
	return a.client.Close()
}

func objectName(id string, at time.Time) string {
	return fmt.Sprintf("reports/%d/%s.json", at.UTC().Year(), id)
}

// Save archives one report payload and returns its entry.
func (a *Archive) Save(ctx context.Context, kind Kind, payload interface{}) (*Entry, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("Save: marshal payload: %w", err)
	}

	entry := Entry{
		ID:        uuid.New().String(),
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
	body, err := json.Marshal(envelope{Entry: entry, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("Save: marshal envelope: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	obj := a.client.Bucket(a.bucket).Object(objectName(entry.ID, entry.CreatedAt))
	w := obj.NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("Save: writing object: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("Save: finalize upload: %w", err)
	}
	return &entry, nil
}

// Load fetches one archived report by id and year and returns its metadata
// plus the raw payload bytes.
func (a *Archive) Load(ctx context.Context, year int, id string) (*Entry, json.RawMessage, error) {
	name := fmt.Sprintf("reports/%d/%s.json", year, id)
	rc, err := a.client.Bucket(a.bucket).Object(name).NewReader(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("Load %s: open reader: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("Load %s: read object: %w", name, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, nil, fmt.Errorf("Load %s: decode envelope: %w", name, err)
	}
	return &env.Entry, env.Payload, nil
}

// List returns the entries for one year, newest first.
func (a *Archive) List(ctx context.Context, year int) ([]Entry, error) {
	prefix := fmt.Sprintf("reports/%d/", year)
	it := a.client.Bucket(a.bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var out []Entry
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("List %d: iterating objects: %w", year, err)
		}
		id := strings.TrimSuffix(path.Base(attrs.Name), ".json")
		entry, _, err := a.Load(ctx, year, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *entry)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
