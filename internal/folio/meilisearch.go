package folio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
)

// MeilisearchConfig captures connection settings for optional search publishing.
type MeilisearchConfig struct {
	Host   string
	APIKey string
	Index  string
}

type meilisearchTarget struct {
	client *meilisearch.Client
	index  *meilisearch.Index
	chunks ChunkOptions
	policy PreviewPolicy
	logger *slog.Logger
}

// NewMeilisearchTarget connects to Meilisearch and prepares the index. It
// returns a nil target when no index is configured.
func NewMeilisearchTarget(ctx context.Context, cfg MeilisearchConfig, chunks ChunkOptions, policy PreviewPolicy, logger *slog.Logger) (MountTarget, error) {
	host := strings.TrimSpace(cfg.Host)
	indexName := strings.TrimSpace(cfg.Index)
	if indexName == "" {
		return nil, nil
	}
	if host == "" {
		host = "http://localhost:7700"
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: strings.TrimSpace(cfg.APIKey),
	})
	index := client.Index(indexName)

	t := &meilisearchTarget{client: client, index: index, chunks: chunks, policy: policy, logger: logger}
	if err := t.ensureIndex(ctx, indexName); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *meilisearchTarget) ensureIndex(ctx context.Context, indexName string) error {
	_, err := t.client.GetIndex(indexName)
	if err != nil {
		var meiliErr *meilisearch.Error
		if errors.As(err, &meiliErr) && meiliErr.MeilisearchApiError.Code == "index_not_found" {
			task, createErr := t.client.CreateIndex(&meilisearch.IndexConfig{Uid: indexName, PrimaryKey: "id"})
			if createErr != nil {
				return createErr
			}
			if err := t.waitForTask(ctx, task); err != nil {
				return err
			}
		} else {
			return err
		}
	}

	desiredSearchable := []string{"content", "file_path"}
	currentPtr, err := t.index.GetSearchableAttributes()
	if err != nil {
		return err
	}
	if stringSlicesEqual(derefSlice(currentPtr), desiredSearchable) {
		return nil
	}
	task, err := t.index.UpdateSearchableAttributes(&desiredSearchable)
	if err != nil {
		return err
	}
	return t.waitForTask(ctx, task)
}

func (t *meilisearchTarget) waitForTask(ctx context.Context, task *meilisearch.TaskInfo) error {
	if task == nil || task.TaskUID == 0 {
		return nil
	}
	_, err := t.client.WaitForTask(task.TaskUID, meilisearch.WaitParams{Context: ctx})
	return err
}

// ApplyMount replaces the index contents with the chunks of the new snapshot.
func (t *meilisearchTarget) ApplyMount(ctx context.Context, event MountEvent) error {
	task, err := t.index.DeleteAllDocuments()
	if err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	if err := t.waitForTask(ctx, task); err != nil {
		return err
	}

	docs, err := makeMeiliDocuments(event, t.chunks, t.policy)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	task, err = t.index.AddDocuments(docs)
	if err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	if err := t.waitForTask(ctx, task); err != nil {
		return err
	}
	t.logger.Info("Published snapshot to Meilisearch", "source", event.Source, "documents", len(docs))
	return nil
}

func makeMeiliDocuments(event MountEvent, opts ChunkOptions, policy PreviewPolicy) ([]meiliChunkDocument, error) {
	var docs []meiliChunkDocument
	for _, p := range event.VFS.List() {
		if !policy.Visible(p) {
			continue
		}
		data, _ := event.VFS.Read(p)
		chunks, err := ChunkContent(p, data, opts)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", p, err)
		}
		for _, chunk := range chunks {
			docs = append(docs, meiliChunkDocument{
				ID:          chunkDocumentID(chunk.FilePath, chunk.StartLine, chunk.EndLine),
				Source:      event.Source,
				FilePath:    chunk.FilePath,
				StartLine:   chunk.StartLine,
				EndLine:     chunk.EndLine,
				Content:     chunk.Content,
				ContentHash: chunk.ContentHash,
			})
		}
	}
	return docs, nil
}

// chunkDocumentID derives a stable id that only uses characters Meilisearch
// accepts in primary keys.
func chunkDocumentID(path string, start, end int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s:%d-%d", path, start, end))).String()
}

func derefSlice(ptr *[]string) []string {
	if ptr == nil {
		return nil
	}
	return *ptr
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// meiliChunkDocument represents a chunk stored in Meilisearch.
type meiliChunkDocument struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	FilePath    string `json:"file_path"`
	StartLine   int    `json:"start_line"`
	EndLine     int    `json:"end_line"`
	Content     string `json:"content"`
	ContentHash string `json:"content_hash"`
}
