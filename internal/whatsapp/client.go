// Package whatsapp is the HTTP client for the woowa WhatsApp gateway.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"commerce_notifier/platform/apperr"
	"commerce_notifier/platform/config"
	"commerce_notifier/platform/logger"
)

// Gateway endpoints, relative to the configured base URL.
const (
	endpointSendMessage  = "send_message"
	endpointSendImageURL = "send_image_url"
	endpointScheduler    = "scheduler"
	endpointCheckNumber  = "check_number"
)

// ScheduleLayout is the wall-clock format the gateway expects in sch_date.
const ScheduleLayout = "2006-01-02 15:04"

// notExists is the body check_number answers with for numbers without WhatsApp.
const notExists = "not_exists"

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logger.Logger
}

type woowaRequest struct {
	PhoneNo string `json:"phone_no"`
	Key     string `json:"key"`
	Message string `json:"message,omitempty"`
	URL     string `json:"url,omitempty"`
	APIType string `json:"api_type,omitempty"`
	SchDate string `json:"sch_date,omitempty"`
}

func NewClient(cfg config.GatewayConfig, log *logger.Logger) *Client {
	timeout := cfg.GetGatewayTimeout()
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return NewClientWithHTTP(cfg.GetGatewayBaseURL(), cfg.GetGatewayAPIKey(), &http.Client{Timeout: timeout}, log)
}

// NewClientWithHTTP builds a client around an existing http.Client.
func NewClientWithHTTP(baseURL, apiKey string, httpClient *http.Client, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
		log:     log,
	}
}

// SendText sends a plain text message to one recipient.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	_, err := c.post(ctx, endpointSendMessage, woowaRequest{PhoneNo: to, Key: c.apiKey, Message: body})
	if err != nil {
		return err
	}
	c.log.Info("whatsapp text sent", "phone", to)
	return nil
}

// SendImage sends an image by URL with an optional caption.
func (c *Client) SendImage(ctx context.Context, to, imageURL, caption string) error {
	_, err := c.post(ctx, endpointSendImageURL, woowaRequest{PhoneNo: to, Key: c.apiKey, Message: caption, URL: imageURL})
	if err != nil {
		return err
	}
	c.log.Info("whatsapp image sent", "phone", to, "url", imageURL)
	return nil
}

// ScheduleSend asks the gateway to deliver body at the given wall-clock time.
// at is formatted in its own location.
func (c *Client) ScheduleSend(ctx context.Context, to, body string, at time.Time) error {
	_, err := c.post(ctx, endpointScheduler, woowaRequest{
		PhoneNo: to,
		Key:     c.apiKey,
		Message: body,
		APIType: "text",
		SchDate: at.Format(ScheduleLayout),
	})
	if err != nil {
		return err
	}
	c.log.Info("whatsapp send scheduled", "phone", to, "at", at.Format(ScheduleLayout))
	return nil
}

// Exists reports whether the number has a WhatsApp account.
func (c *Client) Exists(ctx context.Context, phoneNumber string) (bool, error) {
	body, err := c.post(ctx, endpointCheckNumber, woowaRequest{PhoneNo: phoneNumber, Key: c.apiKey})
	if err != nil {
		if apperr.Is(err, apperr.KindValidation) {
			return false, nil
		}
		return false, err
	}
	return !strings.EqualFold(strings.TrimSpace(body), notExists), nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload woowaRequest) (string, error) {
	op := "whatsapp." + endpoint

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal whatsapp payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperr.Unavailable("whatsapp request failed", err).WithOp(op)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, _ := io.ReadAll(resp.Body)
	text := strings.TrimSpace(string(data))

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return text, apperr.Unavailable(fmt.Sprintf("whatsapp gateway returned %d", resp.StatusCode), errors.New(text)).WithOp(op)
	case resp.StatusCode >= http.StatusBadRequest:
		return text, apperr.Wrap(apperr.KindValidation, fmt.Sprintf("whatsapp gateway returned %d", resp.StatusCode), errors.New(text)).WithOp(op)
	}
	return text, nil
}
