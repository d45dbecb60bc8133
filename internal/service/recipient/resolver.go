// Package recipient expands a routing rule's recipient list into the
// concrete set of user names to notify.
package recipient

import (
	"context"
	"sort"

	"github.com/NKavindya/device-mgt-core-sub000/internal/directory"
	"github.com/NKavindya/device-mgt-core-sub000/internal/domain"
)

type Resolver struct {
	dir directory.UserDirectory
}

func NewResolver(dir directory.UserDirectory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve unions explicit users with the members of every listed role,
// deduplicated. A nil/empty recipient list resolves to an empty set. A failed role
// lookup aborts the whole resolution so the caller never notifies a partial
// recipient set.
func (r *Resolver) Resolve(ctx context.Context, tenantID int, recipients *domain.Recipients) ([]string, error) {
	if recipients == nil {
		return nil, nil
	}

	seen := make(map[string]struct{})
	for _, user := range recipients.Users {
		seen[user] = struct{}{}
	}

	for _, role := range recipients.Roles {
		members, err := r.dir.ListUsersWithRole(ctx, tenantID, role)
		if err != nil {
			return nil, &domain.DirectoryError{Role: role, Err: err}
		}
		for _, user := range members {
			seen[user] = struct{}{}
		}
	}

	usernames := make([]string, 0, len(seen))
	for user := range seen {
		usernames = append(usernames, user)
	}
	sort.Strings(usernames)
	return usernames, nil
}
