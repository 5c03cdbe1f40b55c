package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	issuemodel "NagarSeva/module/issue/model"
	"NagarSeva/module/issue/seq"
	"NagarSeva/module/urgency"
	"NagarSeva/module/webhook/flow"
	"NagarSeva/module/webhook/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nullSink struct{}

func (nullSink) Create(context.Context, *issuemodel.Issue) error { return nil }
func (nullSink) FindByTicketID(context.Context, string) (*issuemodel.Issue, error) {
	return nil, nil
}

type oneCounter struct{}

func (oneCounter) Incr(context.Context, string) (int64, error) { return 1, nil }

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	machine := flow.NewMachine(
		session.NewMemoryStore(),
		nullSink{},
		seq.New(oneCounter{}),
		urgency.New("", time.Second),
	)
	h := NewHandler(machine)

	r := gin.New()
	r.GET("/webhook", h.Health)
	r.POST("/webhook", h.Incoming)
	return r
}

func postForm(t *testing.T, r *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "up and running")
}

func TestIncomingRepliesWithTwiML(t *testing.T) {
	r := newTestRouter()

	w := postForm(t, r, url.Values{
		"From":     {"whatsapp:+919876543210"},
		"Body":     {"REPORT"},
		"NumMedia": {"0"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/xml")
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "<Response><Message>"), "body: %s", body)
	assert.Contains(t, body, "department")
	assert.True(t, strings.HasSuffix(body, "</Message></Response>"), "body: %s", body)
}

func TestIncomingEscapesReplyText(t *testing.T) {
	r := newTestRouter()

	// the menu reprompt quotes user-provided text nowhere, but the envelope
	// itself must stay well-formed XML for any reply
	w := postForm(t, r, url.Values{
		"From": {"whatsapp:+919876543210"},
		"Body": {"<script>"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "<script>")
}

func TestIncomingRequiresFrom(t *testing.T) {
	r := newTestRouter()
	w := postForm(t, r, url.Values{"Body": {"REPORT"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIncomingPassesMediaThrough(t *testing.T) {
	r := newTestRouter()
	from := url.Values{"From": {"whatsapp:+911111111111"}}

	steps := []url.Values{
		{"From": from["From"], "Body": {"REPORT"}},
		{"From": from["From"], "Body": {"1"}},
		{"From": from["From"], "Body": {"Bhopal"}},
		{"From": from["From"], "Body": {"SKIP"}},
		{"From": from["From"], "Body": {"Near Main Road"}},
		{"From": from["From"], "Body": {"462001"}},
		{"From": from["From"], "Body": {"no water in our lane"}},
		{"From": from["From"], "Body": {"1"}},
	}
	for _, s := range steps {
		postForm(t, r, s)
	}

	w := postForm(t, r, url.Values{
		"From":      from["From"],
		"Body":      {""},
		"NumMedia":  {"1"},
		"MediaUrl0": {"https://mms.twiliocdn.com/some/media"},
	})
	assert.Contains(t, w.Body.String(), "BHO-WA-001")
}
