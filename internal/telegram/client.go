package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"turntable/internal/config"
)

// ParseModeHTML requests Telegram's HTML formatting for outbound text.
const ParseModeHTML = "HTML"

const requestTimeout = 10 * time.Second

// Client is a minimal Bot API client over plain HTTP. The base URL is
// configurable so tests can point it at a local server.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient builds a client from application config.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.Telegram.APIBaseURL,
		token:   cfg.Telegram.Token,
		// Long polls hold the connection open up to their own timeout, so
		// the per-request deadline is applied via context instead.
		client: &http.Client{},
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
	ErrorCode   int             `json:"error_code"`
}

func (c *Client) call(ctx context.Context, method string, params any, result any) error {
	var body io.Reader
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("%s: encode params: %w", method, err)
		}
		body = bytes.NewReader(data)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("%s: decode response: %w", method, err)
	}
	if !parsed.OK {
		return fmt.Errorf("%s: api error %d: %s", method, parsed.ErrorCode, parsed.Description)
	}
	if result != nil && len(parsed.Result) > 0 {
		if err := json.Unmarshal(parsed.Result, result); err != nil {
			return fmt.Errorf("%s: decode result: %w", method, err)
		}
	}
	return nil
}

// GetMe fetches the bot's own identity; used at startup to validate the token.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var user User
	if err := c.call(ctx, "getMe", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUpdates long-polls for events newer than offset, waiting up to timeout
// seconds server-side before returning an empty batch.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	// Allow the server its full poll window plus request overhead.
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second+requestTimeout)
	defer cancel()

	params := getUpdatesParams{
		Offset:         offset,
		Timeout:        timeout,
		AllowedUpdates: []string{"message", "callback_query"},
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", params, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage posts text (and an optional inline keyboard) to a chat.
func (c *Client) SendMessage(ctx context.Context, params SendMessageParams) (*Message, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var message Message
	if err := c.call(ctx, "sendMessage", params, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// EditMessageText replaces a previously sent message's text and keyboard.
func (c *Client) EditMessageText(ctx context.Context, params EditMessageTextParams) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	return c.call(ctx, "editMessageText", params, nil)
}

// AnswerCallbackQuery acknowledges a button press, optionally with a toast.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID, text string) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	params := answerCallbackQueryParams{CallbackQueryID: callbackID, Text: text}
	return c.call(ctx, "answerCallbackQuery", params, nil)
}
