package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nnikochann/numero-tg/internal/domain"
	"github.com/nnikochann/numero-tg/internal/repository"
)

// userDateLayout es el formato en que el usuario escribe fechas; se
// convierte a ISO antes de tocar el motor numerológico.
const userDateLayout = "02.01.2006"

// Respuestas del bot. Texto de dominio en ruso, igual que los reportes.
const (
	replyGreeting = "Добро пожаловать в ИИ-Нумеролог! 🔮\n\n" +
		"Я помогу вам узнать, что говорят числа о вашей судьбе.\n\n" +
		"Команды:\n" +
		"/mini — бесплатный мини-расчет\n" +
		"/report — полный отчет (149 ₽)\n" +
		"/compatibility — совместимость с партнером\n" +
		"/subscribe — еженедельный прогноз (299 ₽/мес)\n" +
		"/settings — настройки языка и уведомлений\n" +
		"/help — помощь"
	replyAskBirthdate        = "Введите вашу дату рождения в формате ДД.ММ.ГГГГ (например, 15.05.1990):"
	replyAskName             = "Теперь введите ваше полное имя (ФИО):"
	replyAskPartnerBirthdate = "Введите дату рождения партнера в формате ДД.ММ.ГГГГ:"
	replyAskPartnerName      = "Теперь введите полное имя партнера (ФИО):"
	replyBadDate             = "Неверный формат даты. Пожалуйста, используйте формат ДД.ММ.ГГГГ (например, 15.05.1990):"
	replyEmptyName           = "Имя не может быть пустым. Введите полное имя (ФИО):"
	replyNeedProfile         = "Сначала сделайте свой расчет командой /mini — для совместимости нужны ваши данные."
	replyRateLimited         = "Слишком много запросов. Попробуйте снова через несколько минут."
	replyInternalError       = "Произошла ошибка при расчете. Попробуйте позже."
	replyUnknown             = "Не понимаю. Отправьте /start, чтобы увидеть список команд."
	replyHelp                = "Доступные команды:\n" +
		"/start — начать\n" +
		"/mini — бесплатный мини-расчет\n" +
		"/report — полный отчет (149 ₽)\n" +
		"/compatibility — совместимость с партнером\n" +
		"/subscribe — еженедельный прогноз (299 ₽/мес)\n" +
		"/settings — настройки языка и уведомлений\n" +
		"/help — помощь"
	replyOrderCreated = "Заказ №%d создан. Сумма к оплате: %.0f ₽. После подтверждения оплаты я пришлю результат."
	replySettings     = "⚙️ Настройки\n\nТекущий язык: %s\nУведомления: %s\n\n/lang — переключить язык\n/push — включить/отключить уведомления"

	replySubscriptionActive = "💎 У вас активная подписка на еженедельные прогнозы.\n\n" +
		"Следующее списание: %s\nСтоимость: 299 ₽ в месяц.\n\nОтменить подписку: /cancel"
	replySubscriptionTrial = "🔍 У вас активна пробная подписка на еженедельные прогнозы.\n\n" +
		"Срок действия: до %s\n\nПосле окончания пробного периода подписка будет отключена."
	replySubscriptionCanceled = "✅ Ваша подписка успешно отменена.\n\n" +
		"Вы больше не будете получать еженедельные прогнозы.\n" +
		"Возобновить подписку можно в любой момент через команду /subscribe."
	replyNoActiveSubscription = "ℹ️ У вас нет активной подписки для отмены."
	replyTrialActivated       = "✅ Тестовая подписка активирована!\n\n" +
		"Вы будете получать еженедельные нумерологические прогнозы в течение 7 дней.\n" +
		"Управление подпиской доступно через команду /subscribe."
)

// DialogService implementa la máquina de estados de la conversación que
// recolecta fecha de nacimiento y nombre antes de lanzar los cálculos.
type DialogService struct {
	logger   *zap.Logger
	states   StateStore
	users    repository.UserRepository
	subs     repository.SubscriptionRepository
	reports  *ReportService
	orders   *OrderService
	limiter  RequestLimiter
	testMode bool
}

func NewDialogService(
	logger *zap.Logger,
	states StateStore,
	users repository.UserRepository,
	subs repository.SubscriptionRepository,
	reports *ReportService,
	orders *OrderService,
	limiter RequestLimiter,
	testMode bool,
) *DialogService {
	if limiter == nil {
		limiter = NewRequestLimiter(10*time.Minute, 3)
	}
	return &DialogService{
		logger:   logger,
		states:   states,
		users:    users,
		subs:     subs,
		reports:  reports,
		orders:   orders,
		limiter:  limiter,
		testMode: testMode,
	}
}

// HandleMessage procesa un mensaje entrante y devuelve la respuesta del bot.
func (s *DialogService) HandleMessage(ctx context.Context, chatID int64, text string) (string, error) {
	text = strings.TrimSpace(text)

	state, err := s.states.Get(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("get dialog state: %w", err)
	}

	// Los comandos resetean cualquier diálogo en curso.
	if strings.HasPrefix(text, "/") {
		return s.handleCommand(ctx, chatID, text)
	}

	switch state.State {
	case StateWaitingBirthdate:
		return s.stepBirthdate(ctx, chatID, state, text)
	case StateWaitingName:
		return s.stepName(ctx, chatID, state, text)
	case StateWaitingPartnerBirthdate:
		return s.stepPartnerBirthdate(ctx, chatID, state, text)
	case StateWaitingPartnerName:
		return s.stepPartnerName(ctx, chatID, state, text)
	default:
		return replyUnknown, nil
	}
}

func (s *DialogService) handleCommand(ctx context.Context, chatID int64, command string) (string, error) {
	if err := s.states.Clear(ctx, chatID); err != nil {
		return "", fmt.Errorf("clear dialog state: %w", err)
	}

	switch strings.ToLower(command) {
	case "/start":
		if _, err := s.ensureUser(ctx, chatID); err != nil {
			return "", err
		}
		return replyGreeting, nil
	case "/help":
		return replyHelp, nil
	case "/mini":
		if err := s.states.Set(ctx, chatID, DialogState{State: StateWaitingBirthdate}); err != nil {
			return "", fmt.Errorf("set dialog state: %w", err)
		}
		return replyAskBirthdate, nil
	case "/compatibility":
		user, err := s.ensureUser(ctx, chatID)
		if err != nil {
			return "", err
		}
		if !user.HasProfileData() {
			return replyNeedProfile, nil
		}
		if err := s.states.Set(ctx, chatID, DialogState{State: StateWaitingPartnerBirthdate}); err != nil {
			return "", fmt.Errorf("set dialog state: %w", err)
		}
		return replyAskPartnerBirthdate, nil
	case "/report":
		return s.createOrder(ctx, chatID, domain.ProductFullReport, nil)
	case "/subscribe":
		return s.subscribe(ctx, chatID)
	case "/cancel":
		return s.cancelSubscription(ctx, chatID)
	case "/settings":
		user, err := s.ensureUser(ctx, chatID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(replySettings, langLabel(user.Lang), pushLabel(user.PushEnabled)), nil
	case "/lang":
		user, err := s.ensureUser(ctx, chatID)
		if err != nil {
			return "", err
		}
		next := "en"
		if user.Lang != "ru" {
			next = "ru"
		}
		if err := s.users.UpdateSettings(ctx, chatID, &next, nil); err != nil {
			return "", fmt.Errorf("update lang: %w", err)
		}
		return "Язык переключен: " + langLabel(next), nil
	case "/push":
		user, err := s.ensureUser(ctx, chatID)
		if err != nil {
			return "", err
		}
		next := !user.PushEnabled
		if err := s.users.UpdateSettings(ctx, chatID, nil, &next); err != nil {
			return "", fmt.Errorf("update push: %w", err)
		}
		return "Уведомления: " + pushLabel(next), nil
	default:
		return replyUnknown, nil
	}
}

func (s *DialogService) stepBirthdate(ctx context.Context, chatID int64, state DialogState, text string) (string, error) {
	iso, ok := parseUserDate(text)
	if !ok {
		return replyBadDate, nil
	}
	state.State = StateWaitingName
	state.Birthdate = iso
	if err := s.states.Set(ctx, chatID, state); err != nil {
		return "", fmt.Errorf("set dialog state: %w", err)
	}
	return replyAskName, nil
}

func (s *DialogService) stepName(ctx context.Context, chatID int64, state DialogState, text string) (string, error) {
	if text == "" {
		return replyEmptyName, nil
	}
	if !s.limiter.Allow(chatID) {
		return replyRateLimited, nil
	}

	user, err := s.ensureUser(ctx, chatID)
	if err != nil {
		return "", err
	}
	if err := s.users.UpdateProfile(ctx, chatID, text, state.Birthdate); err != nil {
		return "", fmt.Errorf("update user profile: %w", err)
	}
	user.FIO = text
	user.Birthdate = state.Birthdate

	mini, err := s.reports.Mini(ctx, user)
	if err != nil {
		s.logger.Error("mini report failed", zap.Error(err), zap.Int64("chat_id", chatID))
		_ = s.states.Clear(ctx, chatID)
		return replyInternalError, nil
	}

	if err := s.states.Clear(ctx, chatID); err != nil {
		return "", fmt.Errorf("clear dialog state: %w", err)
	}
	return mini + "\n\nПолный отчет доступен командой /report, совместимость — /compatibility.", nil
}

func (s *DialogService) stepPartnerBirthdate(ctx context.Context, chatID int64, state DialogState, text string) (string, error) {
	iso, ok := parseUserDate(text)
	if !ok {
		return replyBadDate, nil
	}
	state.State = StateWaitingPartnerName
	state.PartnerBirthdate = iso
	if err := s.states.Set(ctx, chatID, state); err != nil {
		return "", fmt.Errorf("set dialog state: %w", err)
	}
	return replyAskPartnerName, nil
}

func (s *DialogService) stepPartnerName(ctx context.Context, chatID int64, state DialogState, text string) (string, error) {
	if text == "" {
		return replyEmptyName, nil
	}

	user, err := s.ensureUser(ctx, chatID)
	if err != nil {
		return "", err
	}
	if !user.HasProfileData() {
		_ = s.states.Clear(ctx, chatID)
		return replyNeedProfile, nil
	}

	mini, err := s.reports.CompatibilityMini(ctx, user, state.PartnerBirthdate, text)
	if err != nil {
		s.logger.Error("compatibility mini failed", zap.Error(err), zap.Int64("chat_id", chatID))
		_ = s.states.Clear(ctx, chatID)
		return replyInternalError, nil
	}

	if err := s.states.Clear(ctx, chatID); err != nil {
		return "", fmt.Errorf("clear dialog state: %w", err)
	}

	// Los datos del partner viven solo en el estado del diálogo; la orden
	// los conserva en su payload para la entrega posterior al pago.
	offer, err := s.createOrder(ctx, chatID, domain.ProductCompatibilityReport, map[string]any{
		"partner_birthdate": state.PartnerBirthdate,
		"partner_fio":       text,
	})
	if err != nil {
		s.logger.Error("compatibility order failed", zap.Error(err), zap.Int64("chat_id", chatID))
		return mini, nil
	}
	return mini + "\n\nПолный отчет о совместимости — 199 ₽.\n" + offer, nil
}

func (s *DialogService) createOrder(ctx context.Context, chatID int64, product string, extra map[string]any) (string, error) {
	user, err := s.ensureUser(ctx, chatID)
	if err != nil {
		return "", err
	}
	if product != domain.ProductSubscription && !user.HasProfileData() {
		return replyNeedProfile, nil
	}
	order, err := s.orders.CreateOrder(ctx, user, product, extra)
	if err != nil {
		return "", fmt.Errorf("create %s order: %w", product, err)
	}
	return fmt.Sprintf(replyOrderCreated, order.ID, order.Price), nil
}

// subscribe muestra el estado de una suscripción vigente; si no hay ninguna,
// crea la orden de compra (o activa un trial gratuito en modo de prueba).
func (s *DialogService) subscribe(ctx context.Context, chatID int64) (string, error) {
	user, err := s.ensureUser(ctx, chatID)
	if err != nil {
		return "", err
	}

	sub, err := s.subs.GetLatestByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("get subscription: %w", err)
	}
	if err == nil && sub.IsActive(time.Now()) {
		if sub.Status == domain.SubscriptionStatusTrial {
			return fmt.Sprintf(replySubscriptionTrial, subDateLabel(sub.TrialEnd)), nil
		}
		return fmt.Sprintf(replySubscriptionActive, subDateLabel(sub.NextCharge)), nil
	}

	if s.testMode {
		if _, err := s.subs.Create(ctx, user.ID, domain.SubscriptionStatusTrial, ""); err != nil {
			return "", fmt.Errorf("create trial subscription: %w", err)
		}
		return replyTrialActivated, nil
	}
	return s.createOrder(ctx, chatID, domain.ProductSubscription, nil)
}

func (s *DialogService) cancelSubscription(ctx context.Context, chatID int64) (string, error) {
	user, err := s.ensureUser(ctx, chatID)
	if err != nil {
		return "", err
	}

	sub, err := s.subs.GetLatestByUserID(ctx, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return replyNoActiveSubscription, nil
	}
	if err != nil {
		return "", fmt.Errorf("get subscription: %w", err)
	}
	if sub.Status != domain.SubscriptionStatusActive {
		return replyNoActiveSubscription, nil
	}

	if err := s.subs.UpdateStatus(ctx, sub.ID, domain.SubscriptionStatusCanceled); err != nil {
		return "", fmt.Errorf("cancel subscription: %w", err)
	}
	return replySubscriptionCanceled, nil
}

func subDateLabel(t *time.Time) string {
	if t == nil {
		return "неизвестно"
	}
	return t.Format("02.01.2006")
}

// ensureUser devuelve el usuario del chat, creándolo si es la primera vez.
func (s *DialogService) ensureUser(ctx context.Context, chatID int64) (domain.User, error) {
	user, err := s.users.GetByTgID(ctx, chatID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	if _, err := s.users.Create(ctx, chatID); err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	user, err = s.users.GetByTgID(ctx, chatID)
	if err != nil {
		return domain.User{}, fmt.Errorf("reload user: %w", err)
	}
	return user, nil
}

func langLabel(lang string) string {
	if lang == "en" {
		return "🇬🇧 English"
	}
	return "🇷🇺 Русский"
}

func pushLabel(enabled bool) string {
	if enabled {
		return "Включены ✅"
	}
	return "Отключены ❌"
}

// parseUserDate valida DD.MM.YYYY y la convierte a ISO.
func parseUserDate(text string) (string, bool) {
	t, err := time.Parse(userDateLayout, strings.TrimSpace(text))
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}
