package flow

import (
	"fmt"
	"strings"

	"NagarSeva/module/webhook/session"
)

// departments in menu order. Numbering is part of the public contract,
// citizens have the menu memorized.
var departments = []string{
	"Water",
	"Electricity",
	"Roads",
	"Sanitation",
	"Garbage Collection",
	"Street Lights",
	"Drainage",
	"Public Toilets",
	"Other",
}

func deptByKey(key string) (string, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return "", false
	}
	return departments[key[0]-'1'], true
}

func deptOptions() string {
	var b strings.Builder
	for i, d := range departments {
		fmt.Fprintf(&b, "%d. %s", i+1, d)
		if i < len(departments)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func deptMenu() string {
	return "Hi! Thanks for reporting an issue.\n" +
		"Type *RESET* at any time to start over, or *BACK* to go to the previous question.\n\n" +
		"Please select the department of concern:\n" + deptOptions()
}

const (
	msgWelcome = "Welcome to the municipal grievance service. Send *REPORT* to file a complaint, " +
		"or *TRACK <ticket id>* to check an existing one."
	msgReset = "Your progress has been cleared. Send *REPORT* to file a new complaint."

	promptCity        = "Which city is the issue in?"
	promptStreet      = "Share street or house details (max 50 characters), or type *SKIP*."
	promptLandmark    = "What is the nearest landmark?"
	promptPincode     = "Please send the 6-digit PIN code of the area."
	promptDescription = "Please describe your issue in detail."
	promptPhotoOpt    = "Would you like to share a photo?\n1. Yes\n2. No"
	promptPhoto       = "Please send the photo now."
)

func completeNotice(ticket string) string {
	if ticket == "" {
		return "Your complaint has already been filed. Send *RESET* to file a new one."
	}
	return fmt.Sprintf(
		"Your complaint has already been filed. Send *TRACK %s* to check its status, or *RESET* to file a new one.",
		ticket,
	)
}

// promptFor re-asks the question belonging to a step, used when BACK rewinds.
func promptFor(step int, sess *session.Session) string {
	switch step {
	case StepStart:
		return msgWelcome
	case StepDept:
		return "Please select the department of concern:\n" + deptOptions()
	case StepAskCity:
		return promptCity
	case StepAskStreetDetails:
		return promptStreet
	case StepAskLandmark:
		return promptLandmark
	case StepPincode:
		return promptPincode
	case StepDescription:
		return promptDescription
	case StepPhotoOpt:
		return promptPhotoOpt
	case StepPhoto:
		return promptPhoto
	case StepComplete:
		return completeNotice(sess.LastTicket)
	default:
		return msgWelcome
	}
}
