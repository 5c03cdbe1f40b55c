package flow

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	issuemodel "NagarSeva/module/issue/model"
	"NagarSeva/module/issue/seq"
	"NagarSeva/module/urgency"
	"NagarSeva/module/webhook/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFrom = "whatsapp:+919876543210"

type fakeSink struct {
	mu        sync.Mutex
	records   []*issuemodel.Issue
	createErr error
	lookupErr error
}

func (f *fakeSink) Create(_ context.Context, issue *issuemodel.Issue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *issue
	f.records = append(f.records, &cp)
	return nil
}

func (f *fakeSink) FindByTicketID(_ context.Context, ticketID string) (*issuemodel.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, r := range f.records {
		if r.TicketID == ticketID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeSink) last(t *testing.T) *issuemodel.Issue {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.records)
	return f.records[len(f.records)-1]
}

type memCounters struct {
	mu   sync.Mutex
	m    map[string]int64
	fail error
}

func (c *memCounters) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return 0, c.fail
	}
	if c.m == nil {
		c.m = map[string]int64{}
	}
	c.m[key]++
	return c.m[key], nil
}

type harness struct {
	machine  *Machine
	sessions *session.MemoryStore
	sink     *fakeSink
	counters *memCounters
}

// newHarness wires the machine with an in-memory sink and counter and a
// classifier with no endpoint, so urgency always comes from the keyword
// fallback (the unreachable-service case).
func newHarness() *harness {
	sessions := session.NewMemoryStore()
	sink := &fakeSink{}
	counters := &memCounters{}
	m := NewMachine(sessions, sink, seq.New(counters), urgency.New("", time.Second))
	return &harness{machine: m, sessions: sessions, sink: sink, counters: counters}
}

func (h *harness) send(body string) string {
	return h.machine.Handle(context.Background(), Incoming{From: testFrom, Body: body})
}

func (h *harness) sendMedia(body, mediaURL string) string {
	return h.machine.Handle(context.Background(), Incoming{
		From: testFrom, Body: body, MediaCount: 1, MediaURL: mediaURL,
	})
}

func TestEndToEndWithoutPhoto(t *testing.T) {
	h := newHarness()

	assert.Contains(t, h.send("REPORT"), "select the department")
	assert.Contains(t, h.send("1"), "Which city")
	assert.Contains(t, h.send("Bhopal"), "street or house details")
	assert.Contains(t, h.send("SKIP"), "landmark")
	assert.Contains(t, h.send("Near Main Road"), "PIN code")
	assert.Contains(t, h.send("462001"), "describe your issue")
	assert.Contains(t, h.send("Gas leak from the main water pipeline"), "share a photo")

	reply := h.send("2")
	assert.Regexp(t, regexp.MustCompile(`BHO-WA-\d{3}`), reply)
	assert.Contains(t, reply, "TRACK BHO-WA-001")

	rec := h.sink.last(t)
	assert.Equal(t, "BHO-WA-001", rec.TicketID)
	assert.Equal(t, testFrom, rec.Phone)
	assert.Equal(t, "Water", rec.Department)
	assert.Equal(t, "Bhopal", rec.Location.City)
	assert.Empty(t, rec.Location.StreetDetails)
	assert.Equal(t, "Near Main Road", rec.Location.Landmark)
	assert.Equal(t, "462001", rec.Location.Pincode)
	assert.Equal(t, issuemodel.StatusPending, rec.Status)
	// classifier endpoint is unreachable; "gas leak" drives the keyword fallback
	assert.Equal(t, issuemodel.UrgencyHigh, rec.Urgency)
	assert.Empty(t, rec.ImageURL)
}

func TestEndToEndWithPhoto(t *testing.T) {
	h := newHarness()

	h.send("REPORT")
	h.send("3") // Roads
	h.send("Indore")
	h.send("12 MG Road")
	h.send("Opposite Rajwada")
	h.send("452001")
	h.send("Deep pothole causing accident risk")
	assert.Contains(t, h.send("1"), "send the photo")

	assert.Contains(t, h.send("just text, no media"), "No photo detected")

	reply := h.sendMedia("", "https://api.twilio.com/2010-04-01/Accounts/AC1/Messages/M1/Media/ME1")
	assert.Contains(t, reply, "IND-RO-001")

	rec := h.sink.last(t)
	assert.Equal(t, "Roads", rec.Department)
	assert.Equal(t, "12 MG Road", rec.Location.StreetDetails)
	assert.NotEmpty(t, rec.ImageURL)
	assert.Equal(t, issuemodel.UrgencyHigh, rec.Urgency) // "accident"
}

func TestStartRequiresReport(t *testing.T) {
	h := newHarness()
	assert.Contains(t, h.send("hello"), "Send *REPORT*")
	assert.Contains(t, h.send("report"), "select the department")
}

func TestDeptMenuMapping(t *testing.T) {
	want := map[string]string{
		"1": "Water",
		"2": "Electricity",
		"3": "Roads",
		"4": "Sanitation",
		"5": "Garbage Collection",
		"6": "Street Lights",
		"7": "Drainage",
		"8": "Public Toilets",
		"9": "Other",
	}
	for key, dept := range want {
		h := newHarness()
		h.send("REPORT")
		reply := h.send(key)
		assert.Contains(t, reply, dept, "key %s", key)

		sess := h.sessions.Get(testFrom)
		assert.Equal(t, dept, sess.Department, "key %s", key)
		assert.Equal(t, StepAskCity, sess.Step, "key %s", key)
	}
}

func TestDeptRejectsInvalidChoice(t *testing.T) {
	h := newHarness()
	h.send("REPORT")
	for _, input := range []string{"0", "10", "water", ""} {
		assert.Contains(t, h.send(input), "Invalid choice")
		assert.Equal(t, StepDept, h.sessions.Get(testFrom).Step, "input %q", input)
	}
}

func TestStepValidation(t *testing.T) {
	h := newHarness()
	h.send("REPORT")
	h.send("1")

	assert.Contains(t, h.send("ab"), "at least 3 characters")
	assert.Equal(t, StepAskCity, h.sessions.Get(testFrom).Step)
	h.send("Bhopal")

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'x'
	}
	assert.Contains(t, h.send(string(long)), "too long")
	assert.Equal(t, StepAskStreetDetails, h.sessions.Get(testFrom).Step)
	h.send("near the temple")

	assert.Contains(t, h.send("ab"), "at least 3 characters")
	h.send("City Hospital")

	assert.Contains(t, h.send("46200"), "6-digit PIN")
	assert.Contains(t, h.send("46200a"), "6-digit PIN")
	h.send("462001")

	assert.Contains(t, h.send("bad"), "at least 5 characters")
	h.send("no water in the colony")

	assert.Contains(t, h.send("yes"), "Reply with *1* for Yes or *2* for No")
	assert.Equal(t, StepPhotoOpt, h.sessions.Get(testFrom).Step)
}

func TestBackReturnsToPreviousStepAndPreservesFields(t *testing.T) {
	h := newHarness()
	h.send("REPORT") // history: [START], step DEPT
	h.send("1")      // history: [START, DEPT], step ASK_CITY
	h.send("ab")     // invalid; history: [START, DEPT, ASK_CITY]

	reply := h.send("BACK")
	sess := h.sessions.Get(testFrom)
	assert.Equal(t, StepDept, sess.Step)
	assert.Contains(t, reply, "department")
	assert.Equal(t, "Water", sess.Department, "BACK must not clear captured fields")

	// re-answering overwrites rather than accumulating
	h.send("2")
	assert.Equal(t, "Electricity", h.sessions.Get(testFrom).Department)
}

func TestBackFromCityAfterValidAnswersOnly(t *testing.T) {
	h := newHarness()
	h.send("REPORT")
	h.send("1") // valid; step ASK_CITY with nothing invalid in between

	reply := h.send("BACK")
	sess := h.sessions.Get(testFrom)
	assert.Equal(t, StepDept, sess.Step, "BACK from ASK_CITY must land on DEPT")
	assert.Contains(t, reply, "department")
	assert.Equal(t, "Water", sess.Department)

	h.send("2")
	assert.Equal(t, "Electricity", h.sessions.Get(testFrom).Department)
	assert.Equal(t, StepAskCity, h.sessions.Get(testFrom).Step)
}

func TestBackFromDeptReturnsToStart(t *testing.T) {
	h := newHarness()
	h.send("REPORT")

	reply := h.send("BACK")
	assert.Contains(t, reply, "Send *REPORT*")
	assert.Equal(t, StepStart, h.sessions.Get(testFrom).Step)
}

func TestBackAtStartHasNowhereToGo(t *testing.T) {
	h := newHarness()

	reply := h.send("BACK")
	assert.Contains(t, reply, "no previous question")
	assert.Equal(t, StepStart, h.sessions.Get(testFrom).Step)
}

func TestResetClearsEverything(t *testing.T) {
	h := newHarness()
	h.send("REPORT")
	h.send("1")
	h.send("Bhopal")

	assert.Contains(t, h.send("RESET"), "cleared")

	sess := h.sessions.Get(testFrom)
	assert.Equal(t, StepStart, sess.Step)
	assert.Empty(t, sess.Department)
	assert.Empty(t, sess.Location.City)
	assert.Empty(t, sess.Description)
	assert.Empty(t, sess.History)

	// fresh capture works with no leaked fields
	h.send("REPORT")
	h.send("4")
	assert.Equal(t, "Sanitation", h.sessions.Get(testFrom).Department)
}

func TestResetIsCaseInsensitive(t *testing.T) {
	h := newHarness()
	h.send("REPORT")
	assert.Contains(t, h.send("  reset  "), "cleared")
	assert.Equal(t, StepStart, h.sessions.Get(testFrom).Step)
}

func TestTrackExistingTicket(t *testing.T) {
	h := newHarness()
	fileIssue(h)

	reply := h.send("TRACK BHO-WA-001")
	assert.Contains(t, reply, "BHO-WA-001")
	assert.Contains(t, reply, issuemodel.StatusPending)
}

func TestTrackUnknownTicket(t *testing.T) {
	h := newHarness()
	h.send("REPORT") // step DEPT

	reply := h.send("TRACK XYZ-AB-999")
	assert.Contains(t, reply, "No complaint found")
	assert.Equal(t, StepDept, h.sessions.Get(testFrom).Step, "TRACK must not move the step")
}

func TestTrackLookupFailure(t *testing.T) {
	h := newHarness()
	h.sink.lookupErr = fmt.Errorf("db down")

	reply := h.send("TRACK BHO-WA-001")
	assert.Contains(t, reply, "try again later")
}

func TestCounterFailureHoldsStepForRetry(t *testing.T) {
	h := newHarness()
	walkToPhotoOpt(h)

	h.counters.fail = fmt.Errorf("storage unavailable")
	reply := h.send("2")
	assert.Contains(t, reply, "try again")
	assert.Equal(t, StepPhotoOpt, h.sessions.Get(testFrom).Step)
	assert.Empty(t, h.sink.records, "no record may exist without a committed ticket")

	// retry after the counter recovers, without re-collecting answers
	h.counters.fail = nil
	assert.Contains(t, h.send("2"), "BHO-WA-001")
	assert.Equal(t, StepComplete, h.sessions.Get(testFrom).Step)
}

func TestPersistFailureReportsIssuedTicket(t *testing.T) {
	h := newHarness()
	walkToPhotoOpt(h)

	h.sink.createErr = fmt.Errorf("db down")
	reply := h.send("2")
	assert.Contains(t, reply, "BHO-WA-001", "the issued ticket id must not be silently lost")
	assert.Contains(t, reply, "could not save")
	assert.Equal(t, StepPhotoOpt, h.sessions.Get(testFrom).Step)

	// the sequence number is consumed; the retry gets the next one
	h.sink.createErr = nil
	assert.Contains(t, h.send("2"), "BHO-WA-002")
}

func TestCompleteRepeatsNoticeUntilReset(t *testing.T) {
	h := newHarness()
	fileIssue(h)

	for i := 0; i < 2; i++ {
		reply := h.send("anything at all")
		assert.Contains(t, reply, "already been filed")
		assert.Contains(t, reply, "TRACK BHO-WA-001")
	}

	h.send("RESET")
	assert.Contains(t, h.send("REPORT"), "select the department")
}

func TestCorruptedStepClearsSession(t *testing.T) {
	h := newHarness()
	sess := h.sessions.Get(testFrom)
	sess.Step = 99

	reply := h.send("hello")
	assert.Contains(t, reply, "Send *REPORT* to start over")
	assert.Equal(t, StepStart, h.sessions.Get(testFrom).Step)
}

func TestEveryMessageGetsExactlyOneReply(t *testing.T) {
	h := newHarness()
	for _, body := range []string{"", "REPORT", "junk", "BACK", "RESET", "TRACK AAA-AA-111"} {
		assert.NotEmpty(t, h.send(body), "body %q", body)
	}
}

// walkToPhotoOpt answers every question up to the photo choice.
func walkToPhotoOpt(h *harness) {
	h.send("REPORT")
	h.send("1")
	h.send("Bhopal")
	h.send("SKIP")
	h.send("Near Main Road")
	h.send("462001")
	h.send("Gas leak from the main water pipeline")
}

func fileIssue(h *harness) {
	walkToPhotoOpt(h)
	h.send("2")
}
