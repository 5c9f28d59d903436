package impl

import (
	"context"
	"log/slog"
	"time"

	"talk/config"
	deliverycontext "talk/internal/delivery/context"
	"talk/internal/domain/entity"
	"talk/internal/domain/service"
	"talk/internal/usecase"
)

const (
	dateLayout         = "2006-01-02"
	defaultMediaURLTTL = time.Hour
)

// profileComposer implements the ProfileComposer interface.
type profileComposer struct {
	storage service.MediaStorage
	urlTTL  time.Duration
	logger  *slog.Logger
}

// NewProfileComposer is the constructor for profileComposer.
func NewProfileComposer(storage service.MediaStorage, cfg *config.Config, logger *slog.Logger) usecase.ProfileComposer {
	urlTTL := defaultMediaURLTTL
	if cfg != nil && cfg.Storage != nil && cfg.Storage.URLTTL > 0 {
		urlTTL = cfg.Storage.URLTTL
	}

	return &profileComposer{storage: storage, urlTTL: urlTTL, logger: logger}
}

// Compose builds the view of account. Role-specific fields come only from the
// sub-profile matching the role; a missing one leaves them out.
func (c *profileComposer) Compose(ctx context.Context, account *entity.Account) *usecase.ProfileView {
	if account == nil {
		return nil
	}

	view := &usecase.ProfileView{
		ID:                 account.ID,
		TalkID:             account.TalkID.String(),
		Email:              account.Email,
		Role:               account.Role,
		EmailVerified:      account.EmailVerified,
		FirstName:          account.FirstName,
		LastName:           account.LastName,
		Gender:             string(account.Gender),
		University:         account.University,
		Level:              string(account.Level),
		RegistrationNumber: account.RegistrationNumber,
		State:              account.State,
		Availability:       string(account.Availability),
	}

	switch account.Role {
	case entity.RoleIndividual:
		if ind := account.Individual; ind != nil {
			view.IndividualView = &usecase.IndividualView{
				PhoneNumber:     ind.PhoneNumber,
				DateOfBirth:     formatDate(ind.DateOfBirth),
				Interests:       append([]string{}, ind.Interests...),
				Bio:             ind.Bio,
				ProfilePhotoURL: c.mediaURL(ctx, ind.PhotoKey),
			}
		}
	case entity.RoleServiceProvider:
		if sp := account.ServiceProvider; sp != nil {
			view.ServiceProviderView = &usecase.ServiceProviderView{
				BusinessName:    sp.BusinessName,
				BusinessEmail:   sp.BusinessEmail,
				BusinessTel:     sp.BusinessTel,
				BusinessType:    sp.BusinessType,
				Description:     sp.Description,
				City:            sp.City,
				Address:         sp.Address,
				AddressVerified: sp.AddressVerified,
				LogoURL:         c.mediaURL(ctx, sp.LogoKey),
			}
		}
	}

	return view
}

// mediaURL resolves key to a link, or nil when there is nothing to link to.
func (c *profileComposer) mediaURL(ctx context.Context, key string) *string {
	if key == "" || c.storage == nil {
		return nil
	}

	url, err := c.storage.URL(ctx, key, c.urlTTL)
	if err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, c.logger).Warn("Failed to resolve media url",
			slog.String("key", key),
			slog.Any("error", err),
		)

		return nil
	}

	return &url
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(dateLayout)
}
