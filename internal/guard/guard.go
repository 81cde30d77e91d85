// Package guard decides who may do what. Login resolves credentials to a
// role; Authorize re-checks that role before every privileged action.
package guard

import (
	"context"
	"errors"
	"fmt"

	"sanad/internal/domain"
	"sanad/internal/store"
	domainerrors "sanad/pkg/domain-errors"
	"sanad/pkg/platform/sentinel"
)

// Guard authenticates operators and enforces role requirements. The root
// identity comes from configuration; assistant identities live in the
// assistant store and are re-queried on every check, so deleting an
// assistant locks them out immediately.
type Guard struct {
	rootUser   string
	rootPass   string
	assistants store.AssistantStore
}

func New(rootUser, rootPass string, assistants store.AssistantStore) *Guard {
	return &Guard{rootUser: rootUser, rootPass: rootPass, assistants: assistants}
}

// Login resolves a username/password pair to a role. The root credential is
// checked first; anything else falls through to the assistant store. Bad
// credentials surface as CodeForbidden without revealing which half failed.
func (g *Guard) Login(ctx context.Context, username, password string) (domain.Role, error) {
	if g.rootUser != "" && username == g.rootUser && password == g.rootPass {
		return domain.RoleRoot, nil
	}

	_, err := g.assistants.Authenticate(ctx, username, password)
	if errors.Is(err, sentinel.ErrNotFound) {
		return domain.RoleNone, domainerrors.New(domainerrors.CodeForbidden, "invalid credentials")
	}
	if err != nil {
		return domain.RoleNone, fmt.Errorf("authenticate assistant: %w", err)
	}
	return domain.RoleAssistant, nil
}

// Authorize checks that the session identity still satisfies the required
// role. Root satisfies every requirement. Assistants are re-authenticated
// against the store with the exact username/password pair, so a deleted
// account or rotated password fails on its next action, not its next login.
func (g *Guard) Authorize(ctx context.Context, role domain.Role, username, password string, required domain.Role) error {
	if !required.Privileged() {
		return nil
	}

	switch role {
	case domain.RoleRoot:
		if username != g.rootUser || password != g.rootPass {
			return domainerrors.New(domainerrors.CodeForbidden, "unknown root identity")
		}
		return nil
	case domain.RoleAssistant:
		if required == domain.RoleRoot {
			return domainerrors.New(domainerrors.CodeForbidden, "root privileges required")
		}
		_, err := g.assistants.Authenticate(ctx, username, password)
		if errors.Is(err, sentinel.ErrNotFound) {
			return domainerrors.New(domainerrors.CodeForbidden, "assistant credentials no longer valid")
		}
		if err != nil {
			return fmt.Errorf("authenticate assistant: %w", err)
		}
		return nil
	default:
		return domainerrors.New(domainerrors.CodeForbidden, "login required")
	}
}
