package store

import (
	"context"
	"errors"

	"agencydash/backend/internal/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("admin role required")
)

type Repository interface {
	ListLeads(ctx context.Context) ([]domain.Lead, error)
	CreateLead(ctx context.Context, lead domain.Lead) (*domain.Lead, error)
	GetLeadByID(ctx context.Context, id int64) (*domain.Lead, error)
	UpdateLead(ctx context.Context, lead domain.Lead) (*domain.Lead, error)
	DeleteLead(ctx context.Context, id int64) error

	ListServiceOfferings(ctx context.Context) ([]domain.ServiceOffering, error)
	CreateServiceOffering(ctx context.Context, offering domain.ServiceOffering) (*domain.ServiceOffering, error)
	GetServiceOfferingByID(ctx context.Context, id int64) (*domain.ServiceOffering, error)
	UpdateServiceOffering(ctx context.Context, offering domain.ServiceOffering) (*domain.ServiceOffering, error)
	DeleteServiceOffering(ctx context.Context, id int64) error

	ListPosts(ctx context.Context) ([]domain.SocialMediaPost, error)
	CreatePost(ctx context.Context, post domain.SocialMediaPost) (*domain.SocialMediaPost, error)
	GetPostByID(ctx context.Context, id int64) (*domain.SocialMediaPost, error)
	UpdatePost(ctx context.Context, post domain.SocialMediaPost) (*domain.SocialMediaPost, error)
	DeletePost(ctx context.Context, id int64) error

	ListMetrics(ctx context.Context) ([]domain.SocialMediaMetrics, error)
	CreateMetrics(ctx context.Context, metrics domain.SocialMediaMetrics) (*domain.SocialMediaMetrics, error)
	DeleteMetrics(ctx context.Context, id int64) error

	ListAdCampaigns(ctx context.Context) ([]domain.AdCampaign, error)
	CreateAdCampaign(ctx context.Context, campaign domain.AdCampaign) (*domain.AdCampaign, error)
	GetAdCampaignByID(ctx context.Context, id int64) (*domain.AdCampaign, error)
	UpdateAdCampaign(ctx context.Context, campaign domain.AdCampaign) (*domain.AdCampaign, error)
	DeleteAdCampaign(ctx context.Context, id int64) error

	ListEmailCampaigns(ctx context.Context) ([]domain.EmailCampaign, error)
	CreateEmailCampaign(ctx context.Context, campaign domain.EmailCampaign) (*domain.EmailCampaign, error)
	GetEmailCampaignByID(ctx context.Context, id int64) (*domain.EmailCampaign, error)
	UpdateEmailCampaign(ctx context.Context, campaign domain.EmailCampaign) (*domain.EmailCampaign, error)
	DeleteEmailCampaign(ctx context.Context, id int64) error

	ListLandingPages(ctx context.Context) ([]domain.LandingPage, error)
	CreateLandingPage(ctx context.Context, page domain.LandingPage) (*domain.LandingPage, error)
	GetLandingPageByID(ctx context.Context, id int64) (*domain.LandingPage, error)
	UpdateLandingPage(ctx context.Context, page domain.LandingPage) (*domain.LandingPage, error)
	DeleteLandingPage(ctx context.Context, id int64) error

	ListSEOEntries(ctx context.Context) ([]domain.SEOEntry, error)
	CreateSEOEntry(ctx context.Context, entry domain.SEOEntry) (*domain.SEOEntry, error)
	GetSEOEntryByID(ctx context.Context, id int64) (*domain.SEOEntry, error)
	UpdateSEOEntry(ctx context.Context, entry domain.SEOEntry) (*domain.SEOEntry, error)
	DeleteSEOEntry(ctx context.Context, id int64) error

	CreateWebhookLog(ctx context.Context, entry domain.WebhookLog) (*domain.WebhookLog, error)
	ListWebhookLogs(ctx context.Context, limit int) ([]domain.WebhookLog, error)
	ClearWebhookLogs(ctx context.Context) error

	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
