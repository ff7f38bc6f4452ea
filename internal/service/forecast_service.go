package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nnikochann/numero-tg/internal/domain"
	"github.com/nnikochann/numero-tg/internal/interpret"
	"github.com/nnikochann/numero-tg/internal/notify"
	"github.com/nnikochann/numero-tg/internal/numerology"
	"github.com/nnikochann/numero-tg/internal/repository"
)

// ForecastService genera y envía el pronóstico semanal a los suscriptores
// activos. Pensado para correr una vez por semana desde un job.
type ForecastService struct {
	logger      *zap.Logger
	subs        repository.SubscriptionRepository
	interpreter interpret.Interpreter
	sender      notify.Sender
	now         func() time.Time
}

func NewForecastService(
	logger *zap.Logger,
	subs repository.SubscriptionRepository,
	interpreter interpret.Interpreter,
	sender notify.Sender,
) *ForecastService {
	return &ForecastService{
		logger:      logger,
		subs:        subs,
		interpreter: interpreter,
		sender:      sender,
		now:         time.Now,
	}
}

// forecastPayload es lo que se envía al webhook de interpretación.
type forecastPayload struct {
	FIO          string `json:"fio"`
	Birthdate    string `json:"birthdate"`
	WeekNumber   int    `json:"week_number"`
	PersonalYear int    `json:"personal_year"`
}

// Run procesa todos los suscriptores y devuelve cuántos envíos se lograron.
// Un suscriptor que falla no corta la corrida.
func (s *ForecastService) Run(ctx context.Context) (int, error) {
	subscribers, err := s.subs.ListActiveSubscribers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list subscribers: %w", err)
	}

	sent := 0
	for _, user := range subscribers {
		if err := s.sendForecast(ctx, user); err != nil {
			s.logger.Warn("forecast failed",
				zap.Error(err),
				zap.Int64("user_id", user.ID),
			)
			continue
		}
		sent++
	}

	s.logger.Info("weekly forecast run finished",
		zap.Int("subscribers", len(subscribers)),
		zap.Int("sent", sent),
	)
	return sent, nil
}

func (s *ForecastService) sendForecast(ctx context.Context, user domain.User) error {
	if !user.HasProfileData() {
		return fmt.Errorf("user %d has no profile data", user.ID)
	}

	date, err := numerology.ParseDate(user.Birthdate)
	if err != nil {
		return fmt.Errorf("parse birthdate: %w", err)
	}

	now := s.now()
	_, week := now.ISOWeek()
	payload := forecastPayload{
		FIO:          user.FIO,
		Birthdate:    user.Birthdate,
		WeekNumber:   numerology.Reduce(week),
		PersonalYear: numerology.PersonalYear(date, now.Year()),
	}

	result, err := s.interpreter.Interpret(ctx, domain.ReportTypeWeekly, payload)
	if err != nil {
		return fmt.Errorf("interpret weekly: %w", err)
	}

	text := result.Message
	if text == "" {
		text = result.MiniReport
	}
	if text == "" {
		return fmt.Errorf("empty weekly forecast for user %d", user.ID)
	}

	if err := s.sender.SendMessage(ctx, user.TgID, "🔮 Ваш прогноз на неделю:\n\n"+text); err != nil {
		return fmt.Errorf("send forecast: %w", err)
	}
	return nil
}
