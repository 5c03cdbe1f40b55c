// Package webhook is the Twilio WhatsApp entry point: it unwraps inbound
// form posts, runs the intake flow, and wraps the reply in TwiML.
package webhook

import (
	"encoding/xml"
	"net/http"
	"strconv"

	"NagarSeva/logger"
	"NagarSeva/module/webhook/flow"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Machine *flow.Machine
}

func NewHandler(m *flow.Machine) *Handler {
	return &Handler{Machine: m}
}

// twiml is the outbound reply envelope Twilio expects.
type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// Incoming POST /webhook
func (h *Handler) Incoming(c *gin.Context) {
	from := c.PostForm("From")
	body := c.PostForm("Body")
	mediaCount, _ := strconv.Atoi(c.PostForm("NumMedia"))
	var mediaURL string
	if mediaCount > 0 {
		mediaURL = c.PostForm("MediaUrl0")
	}

	if from == "" {
		c.String(http.StatusBadRequest, "missing From")
		return
	}

	reply := h.Machine.Handle(c.Request.Context(), flow.Incoming{
		From:       from,
		Body:       body,
		MediaCount: mediaCount,
		MediaURL:   mediaURL,
	})

	out, err := xml.Marshal(twiml{Message: reply})
	if err != nil {
		logger.Errorf("twiml encode: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "text/xml", out)
}

// Health GET /webhook
func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "Webhook is up and running!")
}
