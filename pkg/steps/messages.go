package steps

import "strings"

// Widget labels.
const (
	LabelYes       = "Yes"
	LabelNo        = "No"
	LabelOK        = "OK"
	LabelSubmit    = "Submit"
	LabelNotRobot  = "I'm not a robot"
	LabelVerifyMe  = "Verify Me 😈"
	LabelAccept    = "Accept"
	DefaultLinkURL = "https://bit.ly/3neRJt2"
)

// Prompts of the default flow.
const (
	PromptAddTask      = "Are you sure you want to add task?"
	PromptReallySure   = "Nah bro fr this time?"
	PromptRobot        = "Check 'I'm not a robot' to proceed:"
	PromptRobotRetry   = "Verification failed. Try again."
	PromptLink         = "For verification purposes click this link:"
	PromptTerms        = "Please scroll through and accept the terms:"
	PromptInitializing = "Initializing..."
	PromptReview       = "Your task is being reviewed by the International Task Approval Committee…"
)

// LoadingMessages is the rotating status table of the progressive sequence.
var LoadingMessages = []string{
	"Capturing the JMLs to shoot mockingbird protocol TTLS...",
	"Establishing console.org commands...",
	"Recommitting changes to ZBLL algorithms...",
	"Encrypting 4D hypercube pathways...",
	"Reticulating splines...",
	"Performing quantum checksum...",
	"Verifying human sarcasm detector...",
}

// DefaultTerms is the scroll-gated terms of service text.
var DefaultTerms = strings.TrimSuffix(strings.Repeat("Lorem ipsum dolor sit amet, consectetur adipiscing elit.\n", 20), "\n")
