// Package flow is the WhatsApp intake state machine. Each inbound message
// is a pure transition of (session state, event) into (new state, one reply),
// except finalization, which classifies, issues a ticket and persists.
package flow

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"NagarSeva/logger"
	issuemodel "NagarSeva/module/issue/model"
	"NagarSeva/module/issue/seq"
	"NagarSeva/module/webhook/session"
)

// Conversation steps, in happy-path order.
const (
	StepStart = iota
	StepDept
	StepAskCity
	StepAskStreetDetails
	StepAskLandmark
	StepPincode
	StepDescription
	StepPhotoOpt
	StepPhoto
	StepComplete
)

// Incoming is one webhook event as the machine consumes it.
type Incoming struct {
	From       string
	Body       string
	MediaCount int
	MediaURL   string
}

// RecordSink persists finished grievances. FindByTicketID returns (nil, nil)
// when no record exists, an error only on infrastructure failure.
type RecordSink interface {
	Create(ctx context.Context, issue *issuemodel.Issue) error
	FindByTicketID(ctx context.Context, ticketID string) (*issuemodel.Issue, error)
}

// TicketIssuer allocates the next ticket id for (city, deptCode).
type TicketIssuer interface {
	Next(ctx context.Context, city, deptCode string) (string, error)
}

// Classifier labels a description High/Medium/Low. It never fails.
type Classifier interface {
	Classify(ctx context.Context, text string) string
}

type Machine struct {
	Sessions session.Store
	Sink     RecordSink
	Tickets  TicketIssuer
	Urgency  Classifier
}

func NewMachine(sessions session.Store, sink RecordSink, tickets TicketIssuer, urg Classifier) *Machine {
	return &Machine{Sessions: sessions, Sink: sink, Tickets: tickets, Urgency: urg}
}

var (
	trackRe   = regexp.MustCompile(`^(?i)TRACK\s+([A-Z]{3}-[A-Z]{2}-\d{3,})$`)
	pincodeRe = regexp.MustCompile(`^\d{6}$`)
)

// Handle processes one inbound message and returns exactly one reply.
func (m *Machine) Handle(ctx context.Context, in Incoming) string {
	text := strings.TrimSpace(in.Body)
	upper := strings.ToUpper(text)

	// TRACK works from any step and never touches session state.
	if match := trackRe.FindStringSubmatch(text); match != nil {
		return m.track(ctx, strings.ToUpper(match[1]))
	}

	if upper == "RESET" {
		m.Sessions.Clear(in.From)
		return msgReset
	}

	sess := m.Sessions.Get(in.From)
	reply := m.step(ctx, in, sess, text, upper)
	m.Sessions.Put(in.From, sess)
	return reply
}

func (m *Machine) step(ctx context.Context, in Incoming, sess *session.Session, text, upper string) string {
	// record the current step in history, skipping immediate repeats. This
	// runs before any input handling, BACK included, so the top of the
	// history is always the step the conversant is on.
	if n := len(sess.History); n == 0 || sess.History[n-1] != sess.Step {
		sess.History = append(sess.History, sess.Step)
	}

	if upper == "BACK" {
		return goBack(sess)
	}

	switch sess.Step {
	case StepStart:
		if upper == "REPORT" {
			sess.Step = StepDept
			return deptMenu()
		}
		return msgWelcome

	case StepDept:
		dept, ok := deptByKey(text)
		if !ok {
			return "Invalid choice.\nSelect the department by typing a number from 1 to 9:\n" + deptOptions()
		}
		sess.Department = dept
		sess.Step = StepAskCity
		return fmt.Sprintf("You chose *%s*.\n\n%s", dept, promptCity)

	case StepAskCity:
		if len([]rune(text)) < 3 {
			return "City name must be at least 3 characters. " + promptCity
		}
		sess.Location.City = text
		sess.Step = StepAskStreetDetails
		return promptStreet

	case StepAskStreetDetails:
		if upper == "SKIP" {
			sess.Location.StreetDetails = ""
		} else if len([]rune(text)) <= 50 {
			sess.Location.StreetDetails = text
		} else {
			return "That is too long (max 50 characters). Send shorter street details, or SKIP."
		}
		sess.Step = StepAskLandmark
		return promptLandmark

	case StepAskLandmark:
		if len([]rune(text)) < 3 {
			return "Landmark must be at least 3 characters. " + promptLandmark
		}
		sess.Location.Landmark = text
		sess.Step = StepPincode
		return promptPincode

	case StepPincode:
		if !pincodeRe.MatchString(text) {
			return "That doesn't look right. " + promptPincode
		}
		sess.Location.Pincode = text
		sess.Step = StepDescription
		return promptDescription

	case StepDescription:
		if len([]rune(text)) < 5 {
			return "Description too short. Please describe your issue in at least 5 characters."
		}
		sess.Description = text
		sess.Step = StepPhotoOpt
		return promptPhotoOpt

	case StepPhotoOpt:
		switch text {
		case "1":
			sess.Step = StepPhoto
			return promptPhoto
		case "2":
			return m.finalize(ctx, in.From, sess, "")
		default:
			return "Reply with *1* for Yes or *2* for No."
		}

	case StepPhoto:
		if in.MediaCount > 0 && in.MediaURL != "" {
			return m.finalize(ctx, in.From, sess, in.MediaURL)
		}
		return "No photo detected. Please send an image now, or type *BACK* to go to the previous question."

	case StepComplete:
		return completeNotice(sess.LastTicket)

	default:
		// corrupted step value, terminal for this session; reset in place so
		// the write-back below stores a clean slate
		*sess = session.Session{}
		m.Sessions.Clear(in.From)
		return "Something went wrong. Send *REPORT* to start over."
	}
}

// goBack unwinds the history by two entries and resumes at the second one
// popped, so BACK lands on the previous distinct question. Captured field
// values stay put; re-answering overwrites them.
func goBack(sess *session.Session) string {
	if len(sess.History) < 2 {
		return "There is no previous question to go back to. Continue, or send *RESET* to start over."
	}
	sess.History = sess.History[:len(sess.History)-1]
	prev := sess.History[len(sess.History)-1]
	sess.History = sess.History[:len(sess.History)-1]
	sess.Step = prev
	return promptFor(prev, sess)
}

// finalize runs classify, sequence, persist, in that order. On any transient
// failure the step is left untouched so the same action can be retried
// without re-collecting answers.
func (m *Machine) finalize(ctx context.Context, from string, sess *session.Session, imageURL string) string {
	deptCode := seq.DeptCode(sess.Department)
	label := m.Urgency.Classify(ctx, sess.Description)

	ticket, err := m.Tickets.Next(ctx, sess.Location.City, deptCode)
	if err != nil {
		logger.Errorf("ticket allocation failed for %s: %v", from, err)
		return "Sorry, we could not register your complaint right now. Please try again in a few minutes."
	}

	rec := &issuemodel.Issue{
		TicketID:    ticket,
		Phone:       from,
		Department:  sess.Department,
		Location:    sess.Location,
		Description: sess.Description,
		ImageURL:    imageURL,
		Status:      issuemodel.StatusPending,
		Urgency:     label,
		Timestamp:   time.Now(),
	}
	if err := m.Sink.Create(ctx, rec); err != nil {
		logger.Errorf("issue save failed for %s (ticket %s): %v", from, ticket, err)
		return fmt.Sprintf("We issued ticket *%s* but could not save your complaint. Please resend your last reply to try again.", ticket)
	}

	sess.LastTicket = ticket
	sess.Step = StepComplete
	logger.Infof("issue %s registered for %s (%s urgency)", ticket, from, label)
	return fmt.Sprintf(
		"Your complaint has been registered. ✅\n\nTicket ID: *%s*\nUrgency: %s\n\nSend *TRACK %s* anytime to check its status.",
		ticket, label, ticket,
	)
}

func (m *Machine) track(ctx context.Context, ticketID string) string {
	iss, err := m.Sink.FindByTicketID(ctx, ticketID)
	if err != nil {
		logger.Errorf("ticket lookup failed for %s: %v", ticketID, err)
		return "We could not check that ticket right now. Please try again later."
	}
	if iss == nil {
		return fmt.Sprintf("No complaint found with ticket ID *%s*. Check the ID and try again.", ticketID)
	}
	return fmt.Sprintf("Ticket *%s* (%s): status %s.", iss.TicketID, iss.Department, iss.Status)
}
