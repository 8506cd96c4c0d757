// Package sentiment implements the crypto sentiment tools served over MCP:
// tweet search, tweet analysis, and the composed end-to-end sentiment tool.
package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/jsonschema-go/jsonschema"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"sentibot/pkg/logx"
	"sentibot/pkg/masa"
)

const defaultMaxResults = 10

// Service exposes the sentiment operations over a MASA client.
type Service struct {
	api *masa.Client
	log zerolog.Logger
}

// NewService builds a Service.
func NewService(api *masa.Client) *Service {
	return &Service{api: api, log: logx.Component("sentiment")}
}

// SearchTweets runs a full search job cycle for the named crypto: create
// the job, wait for completion, fetch the records.
func (s *Service) SearchTweets(ctx context.Context, cryptoName string, maxResults int) ([]masa.Tweet, error) {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	jobID, err := s.api.CreateSearchJob(ctx, cryptoName, maxResults)
	if err != nil {
		return nil, err
	}
	if err := s.api.WaitForJob(ctx, jobID); err != nil {
		return nil, err
	}
	tweets, err := s.api.SearchResults(ctx, jobID)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("crypto", cryptoName).Int("tweets", len(tweets)).Msg("search complete")
	return tweets, nil
}

// AnalyzeTweets runs sentiment analysis over the given tweets for the named
// crypto and returns the analysis text.
func (s *Service) AnalyzeTweets(ctx context.Context, tweets []masa.Tweet, cryptoName string) (string, error) {
	texts := make([]string, 0, len(tweets))
	for _, t := range tweets {
		texts = append(texts, t.Content)
	}
	return s.api.AnalyzeSentiment(ctx, texts, cryptoName)
}

// CryptoSentiment composes SearchTweets and AnalyzeTweets.
func (s *Service) CryptoSentiment(ctx context.Context, cryptoName string, maxResults int) (string, error) {
	tweets, err := s.SearchTweets(ctx, cryptoName, maxResults)
	if err != nil {
		return "", err
	}
	return s.AnalyzeTweets(ctx, tweets, cryptoName)
}

// Register adds the three tools to an MCP server. The schemas carry title
// keys the way schema generators emit them; the client side is responsible
// for scrubbing those before talking to a model.
func (s *Service) Register(server *mcpsdk.Server) {
	server.AddTool(&mcpsdk.Tool{
		Name:        "search_tweets",
		Description: "Search Twitter for recent tweets about the given cryptocurrency. Returns a list of tweet objects.",
		InputSchema: searchSchema("search_tweetsArguments"),
	}, s.handleSearchTweets)

	server.AddTool(&mcpsdk.Tool{
		Name:        "analyze_tweets",
		Description: "Analyze sentiment of provided tweets for the given cryptocurrency. Returns a formatted analysis string.",
		InputSchema: &jsonschema.Schema{
			Type:  "object",
			Title: "analyze_tweetsArguments",
			Properties: map[string]*jsonschema.Schema{
				"tweets": {
					Type:  "array",
					Title: "Tweets",
					Items: &jsonschema.Schema{
						Type:  "object",
						Title: "Tweet",
					},
				},
				"crypto_name": {
					Type:  "string",
					Title: "Crypto Name",
				},
			},
			Required: []string{"tweets", "crypto_name"},
		},
	}, s.handleAnalyzeTweets)

	server.AddTool(&mcpsdk.Tool{
		Name:        "get_crypto_sentiment",
		Description: "High-level tool: fetch tweets for a cryptocurrency and analyze their sentiment.",
		InputSchema: searchSchema("get_crypto_sentimentArguments"),
	}, s.handleCryptoSentiment)
}

func searchSchema(title string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:  "object",
		Title: title,
		Properties: map[string]*jsonschema.Schema{
			"crypto_name": {
				Type:  "string",
				Title: "Crypto Name",
			},
			"max_results": {
				Type:    "integer",
				Title:   "Max Results",
				Default: json.RawMessage(strconv.Itoa(defaultMaxResults)),
			},
		},
		Required: []string{"crypto_name"},
	}
}

type searchArgs struct {
	CryptoName string `json:"crypto_name"`
	MaxResults int    `json:"max_results"`
}

func (s *Service) handleSearchTweets(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	var args searchArgs
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	tweets, err := s.SearchTweets(ctx, args.CryptoName, args.MaxResults)
	if err != nil {
		return nil, err
	}
	return jsonResult(tweets)
}

func (s *Service) handleAnalyzeTweets(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	var args struct {
		Tweets     []masa.Tweet `json:"tweets"`
		CryptoName string       `json:"crypto_name"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	analysis, err := s.AnalyzeTweets(ctx, args.Tweets, args.CryptoName)
	if err != nil {
		return nil, err
	}
	return textResult(analysis), nil
}

func (s *Service) handleCryptoSentiment(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	var args searchArgs
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	analysis, err := s.CryptoSentiment(ctx, args.CryptoName, args.MaxResults)
	if err != nil {
		return nil, err
	}
	return textResult(analysis), nil
}

func textResult(text string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
	}
}

func jsonResult(v any) (*mcpsdk.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return textResult(string(raw)), nil
}
