package service

import (
	"context"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/yakoovad/makarapreneur/internal/db"
	"github.com/yakoovad/makarapreneur/internal/model"
	"github.com/yakoovad/makarapreneur/internal/repository"
	"github.com/yakoovad/makarapreneur/internal/storage"
	"github.com/yakoovad/makarapreneur/pkg/logger"
	"go.uber.org/zap"
	"sort"
)

type PartnerService struct {
	tx db.Transactor

	sponsors      repository.SponsorRepository
	mediaPartners repository.MediaPartnerRepository
	files         storage.FileStore
}

func NewPartnerService(tx db.Transactor) *PartnerService {
	return &PartnerService{tx: tx}
}

// ListSponsors orders sponsors by tier, then by their display order.
func (p *PartnerService) ListSponsors(ctx context.Context) ([]*model.Sponsor, *Error) {
	l := logger.FromContext(ctx)

	sponsors, err := p.sponsors.List(ctx)
	if err != nil {
		l.Error("failed to list sponsors", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list sponsors")
	}

	sort.SliceStable(sponsors, func(i, j int) bool {
		ri, rj := sponsors[i].Tier.Rank(), sponsors[j].Tier.Rank()
		if ri != rj {
			return ri < rj
		}
		return sponsors[i].Order < sponsors[j].Order
	})
	return sponsors, nil
}

func (p *PartnerService) CreateSponsor(ctx context.Context, s *model.Sponsor) (*model.Sponsor, *Error) {
	l := logger.FromContext(ctx)
	l.Info("creating sponsor", zap.String("name", s.Name), zap.String("tier", string(s.Tier)))

	s.ID = uuid.NewString()
	if err := p.sponsors.Create(ctx, s); err != nil {
		l.Error("failed to create sponsor", zap.String("name", s.Name), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to create sponsor")
	}
	return s, nil
}

// UpdateSponsor replaces the sponsor's fields. An empty logo keeps the current one.
func (p *PartnerService) UpdateSponsor(ctx context.Context, id string, s *model.Sponsor) (*model.Sponsor, *Error) {
	l := logger.FromContext(ctx)
	l.Info("updating sponsor", zap.String("sponsor_id", id))

	err := p.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := p.sponsors.Get(txCtx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return NewError(ErrorCodeNotFound, "sponsor not found")
		}
		if err != nil {
			l.Error("failed to get sponsor", zap.String("sponsor_id", id), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to update sponsor")
		}

		s.ID = id
		if s.LogoURL == "" {
			s.LogoURL = current.LogoURL
		}

		if err = p.sponsors.Update(txCtx, s); err != nil {
			l.Error("failed to update sponsor", zap.String("sponsor_id", id), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to update sponsor")
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError(err)
	}
	return s, nil
}

func (p *PartnerService) DeleteSponsor(ctx context.Context, id string) *Error {
	l := logger.FromContext(ctx)
	l.Info("deleting sponsor", zap.String("sponsor_id", id))

	err := p.sponsors.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return NewError(ErrorCodeNotFound, "sponsor not found")
	}
	if err != nil {
		l.Error("failed to delete sponsor", zap.String("sponsor_id", id), zap.Error(err))
		return NewError(ErrorCodeUnspecified, "failed to delete sponsor")
	}
	return nil
}

func (p *PartnerService) UploadSponsorLogo(ctx context.Context, id string, f *Upload) (*model.Sponsor, *Error) {
	l := logger.FromContext(ctx)

	sponsor, err := p.sponsors.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "sponsor not found")
	}
	if err != nil {
		l.Error("failed to get sponsor", zap.String("sponsor_id", id), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to upload logo")
	}

	url, serr := store(ctx, p.files, storage.KindImage, f, "logo", "sponsors", id)
	if serr != nil {
		return nil, serr
	}

	sponsor.LogoURL = url
	if err = p.sponsors.Update(ctx, sponsor); err != nil {
		l.Error("failed to set sponsor logo", zap.String("sponsor_id", id), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to upload logo")
	}
	return sponsor, nil
}

func (p *PartnerService) ListMediaPartners(ctx context.Context) ([]*model.MediaPartner, *Error) {
	l := logger.FromContext(ctx)

	partners, err := p.mediaPartners.List(ctx)
	if err != nil {
		l.Error("failed to list media partners", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list media partners")
	}
	return partners, nil
}

func (p *PartnerService) CreateMediaPartner(ctx context.Context, m *model.MediaPartner) (*model.MediaPartner, *Error) {
	l := logger.FromContext(ctx)
	l.Info("creating media partner", zap.String("name", m.Name))

	m.ID = uuid.NewString()
	if err := p.mediaPartners.Create(ctx, m); err != nil {
		l.Error("failed to create media partner", zap.String("name", m.Name), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to create media partner")
	}
	return m, nil
}

func (p *PartnerService) UpdateMediaPartner(ctx context.Context, id string, m *model.MediaPartner) (*model.MediaPartner, *Error) {
	l := logger.FromContext(ctx)
	l.Info("updating media partner", zap.String("media_partner_id", id))

	err := p.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := p.mediaPartners.Get(txCtx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return NewError(ErrorCodeNotFound, "media partner not found")
		}
		if err != nil {
			l.Error("failed to get media partner", zap.String("media_partner_id", id), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to update media partner")
		}

		m.ID = id
		if m.LogoURL == "" {
			m.LogoURL = current.LogoURL
		}

		if err = p.mediaPartners.Update(txCtx, m); err != nil {
			l.Error("failed to update media partner", zap.String("media_partner_id", id), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to update media partner")
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError(err)
	}
	return m, nil
}

func (p *PartnerService) DeleteMediaPartner(ctx context.Context, id string) *Error {
	l := logger.FromContext(ctx)
	l.Info("deleting media partner", zap.String("media_partner_id", id))

	err := p.mediaPartners.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return NewError(ErrorCodeNotFound, "media partner not found")
	}
	if err != nil {
		l.Error("failed to delete media partner", zap.String("media_partner_id", id), zap.Error(err))
		return NewError(ErrorCodeUnspecified, "failed to delete media partner")
	}
	return nil
}

func (p *PartnerService) UploadMediaPartnerLogo(ctx context.Context, id string, f *Upload) (*model.MediaPartner, *Error) {
	l := logger.FromContext(ctx)

	partner, err := p.mediaPartners.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "media partner not found")
	}
	if err != nil {
		l.Error("failed to get media partner", zap.String("media_partner_id", id), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to upload logo")
	}

	url, serr := store(ctx, p.files, storage.KindImage, f, "logo", "media-partners", id)
	if serr != nil {
		return nil, serr
	}

	partner.LogoURL = url
	if err = p.mediaPartners.Update(ctx, partner); err != nil {
		l.Error("failed to set media partner logo", zap.String("media_partner_id", id), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to upload logo")
	}
	return partner, nil
}

func (p *PartnerService) WithSponsorRepo(r repository.SponsorRepository) *PartnerService {
	p.sponsors = r
	return p
}

func (p *PartnerService) WithMediaPartnerRepo(r repository.MediaPartnerRepository) *PartnerService {
	p.mediaPartners = r
	return p
}

func (p *PartnerService) WithFileStore(fs storage.FileStore) *PartnerService {
	p.files = fs
	return p
}
