package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/pkg/errors"

	"github.com/ravenridge/questforge/internal/domain"
)

// CharacterRepository defines storage operations for characters.
type CharacterRepository interface {
	FindByID(ctx context.Context, id int64) (domain.Character, error)
	FindByIDAndOwner(ctx context.Context, id int64, accountID int64) (domain.Character, error)
	FindByOwnerAndName(ctx context.Context, accountID int64, name string) (domain.Character, error)
	Create(ctx context.Context, accountID int64, name string) (domain.Character, error)
	Delete(ctx context.Context, id int64, accountID int64) error
}

// AccountRepository defines the account lookup used for identity resolution.
type AccountRepository interface {
	FindByID(ctx context.Context, id int64) (domain.Account, error)
}

// CredentialVerifier decodes a raw bearer credential into an account id.
type CredentialVerifier interface {
	VerifyCredential(ctx context.Context, raw string) (int64, error)
}

// EventPublisher fans character lifecycle events out to subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, event domain.Event) error
}

type CharacterUsecase struct {
	characters CharacterRepository
	accounts   AccountRepository
	verifier   CredentialVerifier
	signal     EventPublisher
}

func NewCharacterUsecase(
	characters CharacterRepository,
	accounts AccountRepository,
	verifier CredentialVerifier,
	signal EventPublisher,
) *CharacterUsecase {
	return &CharacterUsecase{
		characters: characters,
		accounts:   accounts,
		verifier:   verifier,
		signal:     signal,
	}
}

// Retrieve loads a character and projects it at the tier the credential
// resolves to. A nil credential is the anonymous path. A credential that is
// present but unusable fails the request; it never downgrades to anonymous.
// A credential asserting an account that no longer exists fails with the
// clear-credential advisory set.
func (uc *CharacterUsecase) Retrieve(ctx context.Context, characterID int64, rawCredential *string) (domain.CharacterView, error) {
	ch, err := uc.characters.FindByID(ctx, characterID)
	if err != nil {
		return domain.CharacterView{}, err
	}

	if rawCredential == nil {
		return ch.Project(domain.TierAnonymous), nil
	}

	accountID, err := uc.verifier.VerifyCredential(ctx, *rawCredential)
	if err != nil {
		return domain.CharacterView{}, err
	}

	account, err := uc.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.CharacterView{}, domain.IdentityError{
				AccountID:       accountID,
				ClearCredential: true,
			}
		}
		return domain.CharacterView{}, err
	}

	requester := account.ID
	tier := domain.ResolveTier(&requester, ch)
	return ch.Project(tier), nil
}

// Create makes a new character for the account. Name uniqueness is scoped to
// the owning account; the store's unique index is the authority, the
// pre-check only produces the friendlier conflict before the insert races.
func (uc *CharacterUsecase) Create(ctx context.Context, accountID int64, name string) (domain.Character, error) {
	if name == "" {
		return domain.Character{}, domain.ValidationError{Field: "name", Reason: "character name is required"}
	}
	if strings.ContainsFunc(name, unicode.IsSpace) {
		return domain.Character{}, domain.ValidationError{Field: "name", Reason: "character name must not contain whitespace"}
	}

	_, err := uc.characters.FindByOwnerAndName(ctx, accountID, name)
	if err == nil {
		return domain.Character{}, domain.ConflictError{Resource: "character name"}
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Character{}, err
	}

	ch, err := uc.characters.Create(ctx, accountID, name)
	if err != nil {
		return domain.Character{}, err
	}

	uc.publish(ctx, domain.EventCharacterCreated, ch)
	return ch, nil
}

// Delete removes a character after the owner re-confirms its name. The
// lookup is scoped to the owner so a foreign character is indistinguishable
// from a missing one.
func (uc *CharacterUsecase) Delete(ctx context.Context, accountID int64, characterID int64, confirmName string) error {
	ch, err := uc.characters.FindByIDAndOwner(ctx, characterID, accountID)
	if err != nil {
		return err
	}

	if ch.Name != confirmName {
		return domain.ValidationError{Field: "name", Reason: "character name does not match"}
	}

	err = uc.characters.Delete(ctx, characterID, accountID)
	if err != nil {
		return err
	}

	uc.publish(ctx, domain.EventCharacterDeleted, ch)
	return nil
}

// publish is best-effort: the character mutation already committed, so a
// pub/sub failure is logged and swallowed.
func (uc *CharacterUsecase) publish(ctx context.Context, eventType string, ch domain.Character) {
	event := domain.Event{
		Type:        eventType,
		CharacterID: ch.ID,
		Name:        ch.Name,
		Timestamp:   time.Now(),
	}
	if err := uc.signal.Publish(ctx, domain.CharacterEventChannel, event); err != nil {
		slog.ErrorContext(
			ctx, "Failed to publish character event",
			slog.String("error", err.Error()),
			slog.String("type", eventType),
		)
	}
}
