package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"todocheck/internal/service"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	ID  string // task ID, empty when Num is set
	Num int    // 1-based position in the user's list, 0 when ID is set
}

var (
	// ErrTaskRefRequired indicates no task reference was provided.
	ErrTaskRefRequired = errors.New("task reference required")

	// ErrTaskRefInvalid indicates the reference is neither a number nor an ID.
	ErrTaskRefInvalid = errors.New("invalid task reference")

	// ErrUserRequired indicates a numeric reference was given without --user.
	ErrUserRequired = errors.New("task number requires --user")

	// ErrOutOfRange indicates a numeric reference past the end of the list.
	ErrOutOfRange = errors.New("task number out of range")
)

// ParseTaskRef parses the task reference in args[0].
//
// Parsing rules:
//  1. All digits: a 1-based number into the user's list
//  2. Anything else without whitespace: a task ID
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	ref := strings.TrimSpace(args[0])
	if ref == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	if isAllDigits(ref) {
		num, err := strconv.Atoi(ref)
		if err != nil || num < 1 {
			return TaskRef{}, fmt.Errorf("%w: %s", ErrOutOfRange, ref)
		}
		return TaskRef{Num: num}, nil
	}

	if strings.ContainsAny(ref, " \t\r\n/") {
		return TaskRef{}, fmt.Errorf("%w: %s", ErrTaskRefInvalid, ref)
	}
	return TaskRef{ID: ref}, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ResolveTask fetches the task ref points at. Numbered refs index the list of
// userID's tasks in backend order.
func ResolveTask(ctx context.Context, svc service.Service, userID string, ref TaskRef) (service.Task, error) {
	if ref.ID != "" {
		return svc.GetTask(ctx, ref.ID)
	}

	if userID == "" {
		return service.Task{}, ErrUserRequired
	}
	tasks, err := svc.ListTasks(ctx, userID)
	if err != nil {
		return service.Task{}, err
	}
	if ref.Num < 1 || ref.Num > len(tasks) {
		return service.Task{}, fmt.Errorf("%w: %d", ErrOutOfRange, ref.Num)
	}
	return tasks[ref.Num-1], nil
}

// resolveArgs parses and resolves the reference at the front of args.
func resolveArgs(ctx context.Context, svc service.Service, userID string, args []string) (service.Task, error) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return service.Task{}, err
	}
	return ResolveTask(ctx, svc, userID, ref)
}
