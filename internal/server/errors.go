package server

import "errors"

var (
	// ErrPlanNotFound indicates the requested plan does not exist.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrTaskNotFound indicates the task index is not in the plan.
	ErrTaskNotFound = errors.New("task not found")

	// ErrCommentNotFound indicates the comment does not exist.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrInvalidStatus indicates an unknown task status value.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrRateLimited indicates the client exceeded the generation rate limit.
	ErrRateLimited = errors.New("rate limit exceeded")
)
