package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"spin-raffle-backend/internal/common/cache"
	"spin-raffle-backend/internal/common/config"
	apperrors "spin-raffle-backend/internal/common/errors"
	"spin-raffle-backend/internal/common/logger"
	"spin-raffle-backend/internal/common/metrics"
	"spin-raffle-backend/internal/features/raffle/repository"
	"spin-raffle-backend/internal/utils/random"
)

type raffleService struct {
	campaigns repository.CampaignRepository
	players   repository.PlayerRepository
	spins     repository.SpinRepository
	prizes    repository.PrizeRepository

	cache   ReadCache
	metrics *metrics.Metrics
	config  *config.Config
	loc     *time.Location

	now    func() time.Time
	pick   func(n int) (int, error)
	chance func(p float64) (bool, error)
}

// NewRaffleService wires the raffle operations. cache and m may be nil.
func NewRaffleService(
	store *repository.Store,
	cache ReadCache,
	m *metrics.Metrics,
	cfg *config.Config,
) RaffleService {
	return newRaffleService(store, cache, m, cfg)
}

func newRaffleService(store *repository.Store, cache ReadCache, m *metrics.Metrics, cfg *config.Config) *raffleService {
	return &raffleService{
		campaigns: store.Campaigns,
		players:   store.Players,
		spins:     store.Spins,
		prizes:    store.Prizes,
		cache:     cache,
		metrics:   m,
		config:    cfg,
		loc:       cfg.Raffle.Location(),
		now:       func() time.Time { return time.Now().UTC() },
		pick:      random.Index,
		chance:    random.Chance,
	}
}

func (s *raffleService) tenantID() string {
	return s.config.TenantID
}

// invalidate drops cached read models after a write. Failures only cost staleness.
func (s *raffleService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTenant(ctx); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("Failed to invalidate read cache")
	}
}

// cachedRead serves key from the read cache, loading and storing it on a miss.
func cachedRead[T any](ctx context.Context, s *raffleService, key string, load func(context.Context) (T, error)) (T, error) {
	if s.cache == nil {
		return load(ctx)
	}

	var hit T
	err := s.cache.Get(ctx, key, &hit)
	if err == nil {
		return hit, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		logger.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Read cache unavailable")
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Failed to store read model")
	}
	return value, nil
}

// Login returns the admin session token for valid credentials.
func (s *raffleService) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.config.Admin.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.config.Admin.Password)) == 1
	if !userOK || !passOK || username == "" {
		return "", apperrors.New(apperrors.ErrCodeUnauthorized, "Usuário ou senha inválidos")
	}
	return s.config.Admin.Token, nil
}

func (s *raffleService) CheckSession(token string) bool {
	if token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.config.Admin.Token)) == 1
}

// storageMessage is the driver message of err without the SQLSTATE suffix.
func storageMessage(err error) string {
	if se, ok := repository.AsStorageError(err); ok && se.Message != "" {
		return se.Message
	}
	return err.Error()
}

func storageCode(err error) string {
	if se, ok := repository.AsStorageError(err); ok && se.Code != "" {
		return se.Code
	}
	return "N/A"
}

// technicalError exposes the raw driver error in debug mode and fallback otherwise.
func (s *raffleService) technicalError(err error, fallback string) *apperrors.AppError {
	if s.config.Debug {
		return apperrors.NewDatabaseError(fmt.Sprintf("Erro técnico: %s (Código: %s)", storageMessage(err), storageCode(err)), err)
	}
	return apperrors.NewDatabaseError(fallback, err)
}

// registrationError translates a failed player insert.
func registrationError(err error) *apperrors.AppError {
	se, _ := repository.AsStorageError(err)
	switch {
	case errors.Is(err, repository.ErrDuplicate) && (se == nil || se.Mentions("phone")):
		return apperrors.Wrap(err, apperrors.ErrCodeAlreadyRegistered,
			"Este telefone já está cadastrado! Cada pessoa pode participar apenas uma vez.")
	case errors.Is(err, repository.ErrNotNull):
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, "Por favor, preencha todos os campos obrigatórios.")
	case errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, repository.ErrConstraint),
		errors.Is(err, repository.ErrForeignKey):
		return apperrors.Wrap(err, apperrors.ErrCodeConflict, "Os dados fornecidos violam as regras do sistema.")
	}
	return apperrors.NewDatabaseError(storageMessage(err), err)
}

// spinError translates a failed spin insert.
func (s *raffleService) spinError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.Wrap(err, apperrors.ErrCodeAlreadySpun, "Você já girou a roleta nesta campanha!")
	case errors.Is(err, repository.ErrForeignKey):
		return apperrors.Wrap(err, apperrors.ErrCodeInvalidReference, "Jogador ou prêmio inválido.")
	case errors.Is(err, repository.ErrPermissionDenied):
		return apperrors.Wrap(err, apperrors.ErrCodePermissionDenied, "Sem permissão para registrar o giro.")
	}
	return s.technicalError(err, "Erro ao registrar o giro.")
}

// readError translates a failed read of a view.
func readError(err error, permission, fallback string) *apperrors.AppError {
	if errors.Is(err, repository.ErrPermissionDenied) {
		return apperrors.Wrap(err, apperrors.ErrCodePermissionDenied, permission)
	}
	return apperrors.NewDatabaseError(fallback, err)
}

// outcome is the metrics label of an operation result.
func outcome(err error, success string) string {
	if err == nil {
		return success
	}
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return "error"
	}
	switch appErr.Code {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeInvalidReference:
		return "invalid"
	case apperrors.ErrCodeAlreadyParticipated, apperrors.ErrCodeAlreadyRegistered,
		apperrors.ErrCodeAlreadySpun, apperrors.ErrCodeDeviceAlreadyUsed:
		return "duplicate"
	case apperrors.ErrCodeNoActiveCampaign, apperrors.ErrCodeCampaignExpired:
		return "no_campaign"
	case apperrors.ErrCodeNoEligiblePlayers, apperrors.ErrCodeCampaignNotFound:
		return "no_players"
	}
	return "error"
}
