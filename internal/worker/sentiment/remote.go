package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Wandor/journaling-node/internal/domain/models"
)

// RemoteAnalyzer talks to the LLM-backed analysis service over HTTP. It is
// the external NLP collaborator; transport failures surface as errors so
// the worker can decide between retry and degradation.
type RemoteAnalyzer struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewRemoteAnalyzer(baseURL string, timeout time.Duration, logger *zap.Logger) *RemoteAnalyzer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RemoteAnalyzer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (a *RemoteAnalyzer) AnalyzeSentiment(ctx context.Context, text string) (*models.SentimentResult, error) {
	var result models.SentimentResult
	if err := a.post(ctx, "/v1/sentiment", text, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *RemoteAnalyzer) AnalyzeEntry(ctx context.Context, text string) (*models.EntryAnalysis, error) {
	var analysis models.EntryAnalysis
	if err := a.post(ctx, "/v1/entry-analysis", text, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (a *RemoteAnalyzer) post(ctx context.Context, path, text string, out any) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("marshal analyzer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build analyzer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("call analyzer %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("analyzer %s returned status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode analyzer response: %w", err)
	}
	return nil
}
