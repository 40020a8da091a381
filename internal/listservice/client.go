// Package listservice defines the List Service client contract and an HTTP
// implementation of it.
package listservice

import (
	"context"

	"github.com/thenoetrevino/listctl/internal/models"
)

// Service method names
const (
	MethodDescribe   = "slackLists.describe"
	MethodItemsList  = "slackLists.items.list"
	MethodItemsInfo  = "slackLists.items.info"
	MethodItemUpdate = "slackLists.items.update"
	MethodUsersList  = "users.list"
)

// Caller issues a generic method call and returns the decoded JSON result
type Caller interface {
	Call(ctx context.Context, method string, params map[string]any) (map[string]any, error)
}

// ItemLister lists a bounded page of items of a list
type ItemLister interface {
	ListItems(ctx context.Context, listID string, limit int) ([]models.Item, error)
}

// UserDirectory returns user candidates for a lookup token
type UserDirectory interface {
	LookupUsers(ctx context.Context, query string) ([]models.User, error)
}

// Client is the full List Service capability set
type Client interface {
	Caller
	ItemLister
	UserDirectory
}
