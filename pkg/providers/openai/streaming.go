package openai

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"hunterhq/relay/pkg/providers"
)

// errStreamDone signals normal end of stream to the reader loop.
var errStreamDone = errors.New("stream done")

// streamReader reads Server-Sent Events (SSE) from OpenAI's streaming API.
type streamReader struct {
	client  *providers.HTTPClient
	resp    io.ReadCloser
	scanner *bufio.Scanner
	closed  bool
}

// newStreamReader creates a new stream reader for OpenAI's SSE stream.
func newStreamReader(ctx context.Context, client *providers.HTTPClient, url string, req *OpenAIRequest, headers map[string]string) (*streamReader, error) {
	// Marshal request
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Perform request
	resp, err := client.DoRequest(ctx, "POST", url, bodyBytes, headers)
	if err != nil {
		return nil, err
	}

	// Create scanner for reading SSE lines
	scanner := bufio.NewScanner(resp.Body)

	return &streamReader{
		client:  client,
		resp:    resp.Body,
		scanner: scanner,
		closed:  false,
	}, nil
}

// Read reads the next text delta from the stream.
// Returns "", errStreamDone when the stream ends normally.
// An empty string with nil error means the chunk carried no content.
func (s *streamReader) Read(ctx context.Context) (string, error) {
	if s.closed {
		return "", errStreamDone
	}

	for {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		// Read next line
		if !s.scanner.Scan() {
			// Check for error
			if err := s.scanner.Err(); err != nil {
				return "", &providers.StreamError{
					Provider: s.client.Name(),
					Message:  "failed to read stream",
					Cause:    err,
				}
			}
			// End of stream
			return "", errStreamDone
		}

		line := s.scanner.Text()

		// Skip empty lines
		if line == "" {
			continue
		}

		// Parse SSE line
		if !strings.HasPrefix(line, "data: ") {
			// Skip non-data lines (comments, event types, etc.)
			continue
		}

		// Extract data
		data := strings.TrimPrefix(line, "data: ")

		// Check for stream termination
		if data == "[DONE]" {
			return "", errStreamDone
		}

		// Parse JSON chunk
		var openaiChunk OpenAIStreamResponse
		if err := json.Unmarshal([]byte(data), &openaiChunk); err != nil {
			return "", &providers.ParseError{
				Provider:    s.client.Name(),
				RawResponse: data,
				Cause:       fmt.Errorf("failed to parse stream chunk: %w", err),
			}
		}

		// Extract the text delta
		text, err := extractStreamText(&openaiChunk)
		if err != nil {
			return "", &providers.ParseError{
				Provider: s.client.Name(),
				Cause:    err,
			}
		}

		return text, nil
	}
}

// Close closes the stream and releases resources.
func (s *streamReader) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true
	return s.resp.Close()
}
