package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"tramnet.mpk.org/internal/logging"
	"tramnet.mpk.org/internal/transit"
)

// maxResponseBytes caps the body read from a remote node.
const maxResponseBytes = 4 << 20

// proxy is the client side of a remote actor.
type proxy struct {
	node   *Node
	target Ref
}

func (p proxy) ref() Ref { return p.target }

func (p proxy) Identity() transit.Identity { return p.target.Identity() }

// call invokes method on the remote actor. Transport failures and responses
// saying the target is gone are reported as transit.ErrUnreachable; errors
// raised by the remote actor come back as *RemoteError.
func (p proxy) call(ctx context.Context, method string, args, result any) (err error) {
	start := time.Now()
	defer func() {
		logging.LogRPCCall(p.node.logger, p.target.String(), method,
			float64(time.Since(start).Microseconds())/1000, err)
	}()

	if p.target.Addr == "" {
		return fmt.Errorf("%s.%s: no address: %w", p.target.Identity(), method, transit.ErrUnreachable)
	}

	body := []byte("{}")
	if args != nil {
		body, err = json.Marshal(args)
		if err != nil {
			return fmt.Errorf("encode %s arguments: %w", method, err)
		}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.node.timeout)
		defer cancel()
	}

	endpoint := fmt.Sprintf("%s/rpc/%s/%s/%s", p.target.Addr,
		url.PathEscape(string(p.target.Kind)), url.PathEscape(p.target.Key), url.PathEscape(method))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request for %s.%s: %w", p.target.Identity(), method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.node.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s.%s: %w: %w", p.target.Identity(), method, transit.ErrUnreachable, err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, p.node.logger, "rpc_response_body")

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s.%s: read response: %w: %w", p.target.Identity(), method, transit.ErrUnreachable, err)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  string          `json:"error"`
	}
	decodeErr := json.Unmarshal(payload, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := envelope.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		if unreachableStatus(resp.StatusCode) {
			return fmt.Errorf("%s.%s: %s: %w", p.target.Identity(), method, msg, transit.ErrUnreachable)
		}
		return &RemoteError{Status: resp.StatusCode, Message: msg}
	}

	if decodeErr != nil {
		return fmt.Errorf("%s.%s: %w: %w", p.target.Identity(), method, ErrMalformedResponse, decodeErr)
	}
	if result == nil || len(envelope.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}
