// Package media proxies WhatsApp photo attachments to the console frontend,
// adding the Twilio credentials the browser must never see.
package media

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"NagarSeva/logger"
	"NagarSeva/tools/errs"

	"github.com/gin-gonic/gin"
)

const (
	twilioAPIPrefix = "https://api.twilio.com/2010-04-01/Accounts/"
	twilioCDNPrefix = "https://mms.twiliocdn.com/"
)

type Handler struct {
	AccountSID string
	AuthToken  string
	HTTP       *http.Client
}

func NewHandler(accountSID, authToken string) *Handler {
	return &Handler{
		AccountSID: accountSID,
		AuthToken:  authToken,
		HTTP:       &http.Client{Timeout: 30 * time.Second},
	}
}

// Get GET /api/media?url=<encoded twilio media url>
func (h *Handler) Get(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		c.JSON(http.StatusBadRequest, errs.ErrArgs.WithDetail("missing url query parameter"))
		return
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrArgs.WithDetail("malformed url"))
		return
	}

	isAPIURL := strings.HasPrefix(decoded, twilioAPIPrefix)
	isCDNURL := strings.HasPrefix(decoded, twilioCDNPrefix)
	if !isAPIURL && !isCDNURL {
		c.JSON(http.StatusBadRequest, errs.ErrArgs.WithDetail("invalid media url"))
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, decoded, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrArgs.WithDetail("malformed url"))
		return
	}
	// the REST API needs basic auth, the MMS CDN does not
	if isAPIURL {
		req.SetBasicAuth(h.AccountSID, h.AuthToken)
	}

	resp, err := h.HTTP.Do(req)
	if err != nil {
		logger.Errorf("media proxy fetch: %v", err)
		c.JSON(http.StatusBadGateway, errs.ErrServerInternal.WithDetail("failed to fetch media"))
		return
	}
	defer resp.Body.Close()

	c.Status(resp.StatusCode)
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		c.Header("Content-Type", ct)
	}
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		logger.Warnf("media proxy stream: %v", err)
	}
}
