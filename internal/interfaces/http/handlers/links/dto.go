package links

import (
	"encoding/json"
	"time"

	apptemplink "github.com/orris-inc/templink/internal/application/templink"
	"github.com/orris-inc/templink/internal/domain/templink"
)

// LinkRefs is the payload type carried by links managed over HTTP.
type LinkRefs = json.RawMessage

// CreateLinkRequest creates a link. Omitted fields take the server defaults.
type CreateLinkRequest struct {
	TimeoutSeconds *int            `json:"timeout_seconds" validate:"omitempty,gt=0,max=2592000"`
	OneTime        *bool           `json:"one_time"`
	Method         *string         `json:"method" validate:"omitempty,http_method"`
	Refs           json.RawMessage `json:"refs"`
	Redirect       *string         `json:"redirect" validate:"omitempty,redirect_target"`
	Callback       string          `json:"callback" validate:"omitempty,max=64"`
}

type LinkResponse struct {
	Token     string          `json:"token"`
	URL       string          `json:"url"`
	ExpiresAt time.Time       `json:"expires_at"`
	OneTime   bool            `json:"one_time"`
	Method    string          `json:"method,omitempty"`
	Redirect  string          `json:"redirect,omitempty"`
	Callback  bool            `json:"has_callback"`
	Refs      json.RawMessage `json:"refs,omitempty"`
}

type LinkStatusResponse struct {
	Token      string        `json:"token"`
	Status     string        `json:"status"`
	ConsumedAt *time.Time    `json:"consumed_at,omitempty"`
	Link       *LinkResponse `json:"link,omitempty"`
}

type ImportResponse struct {
	Imported int               `json:"imported"`
	Skipped  []string          `json:"skipped"`
	Failed   map[string]string `json:"failed"`
}

func toLinkResponse(link *templink.Link[LinkRefs], url string) *LinkResponse {
	return &LinkResponse{
		Token:     link.Token(),
		URL:       url,
		ExpiresAt: link.Expiration(),
		OneTime:   link.OneTime(),
		Method:    link.Method(),
		Redirect:  link.Redirect(),
		Callback:  link.Callback() != nil,
		Refs:      link.Refs(),
	}
}

func toImportResponse(result apptemplink.ImportResult) *ImportResponse {
	resp := &ImportResponse{
		Imported: result.Imported,
		Skipped:  result.Skipped,
		Failed:   make(map[string]string, len(result.Failed)),
	}
	if resp.Skipped == nil {
		resp.Skipped = []string{}
	}
	for token, err := range result.Failed {
		resp.Failed[token] = err.Error()
	}
	return resp
}
