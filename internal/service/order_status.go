package service

import (
	"github.com/Dhanush032/Smart-Shopping/internal/constants"
)

// allowedTransitions is the full lifecycle of an order. Missing entries are
// rejected, so terminal states need no row.
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusProcessing: true,
		constants.OrderStatusCancelled:  true,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusShipped:   true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
}

func isTransitionAllowed(current, target string) bool {
	targets, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return targets[target]
}

func isValidOrderStatus(status string) bool {
	switch status {
	case constants.OrderStatusPending,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
		constants.OrderStatusCancelled:
		return true
	}
	return false
}

// canCancel reports whether an order may still be cancelled, by owner or staff.
func canCancel(status string) bool {
	return isTransitionAllowed(status, constants.OrderStatusCancelled)
}

// cancellableStatuses lists every status an order may be cancelled from,
// derived from the transition table.
func cancellableStatuses() []string {
	statuses := make([]string, 0, len(allowedTransitions))
	for status, targets := range allowedTransitions {
		if targets[constants.OrderStatusCancelled] {
			statuses = append(statuses, status)
		}
	}
	return statuses
}
