package settings

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/service/settings/models"
	"github.com/m04kA/SMC-DeliveryScheduler/pkg/types"
)

// Validator проверяет настройки перед сохранением
// Сообщения об ошибках переводятся на английский для ответа админке
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator создает валидатор настроек с тегом hhmm и английскими сообщениями
func NewValidator() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("register translations: %w", err)
	}

	if err := validate.RegisterValidation("hhmm", validateHHMM); err != nil {
		return nil, fmt.Errorf("register hhmm validation: %w", err)
	}

	err := validate.RegisterTranslation("hhmm", trans,
		func(ut ut.Translator) error {
			return ut.Add("hhmm", "{0} must be a time in HH:MM format", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("hhmm", fe.Field())
			return t
		},
	)
	if err != nil {
		return nil, fmt.Errorf("register hhmm translation: %w", err)
	}

	return &Validator{validate: validate, translator: trans}, nil
}

func validateHHMM(fl validator.FieldLevel) bool {
	_, err := types.NewTimeStringFromString(fl.Field().String())
	return err == nil
}

// Validate проверяет запрос и строит нормализованные доменные настройки
func (v *Validator) Validate(req *models.SaveSettingsRequest) (*domain.DeliverySettings, error) {
	// 1. Проверка формата полей по тегам
	if err := v.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, validationErrors[0].Translate(v.translator))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Слоты: startTime < endTime, без повторяющихся идентификаторов
	slots := make([]domain.TimeSlot, 0, len(req.TimeSlots))
	seen := make(map[domain.SlotID]struct{}, len(req.TimeSlots))
	for i, input := range req.TimeSlots {
		start, _ := types.NewTimeStringFromString(input.StartTime)
		end, _ := types.NewTimeStringFromString(input.EndTime)

		if !start.IsBefore(end) {
			return nil, fmt.Errorf("%w: timeSlots[%d]: startTime %s must be before endTime %s", ErrInvalidInput, i, start, end)
		}

		slot := domain.TimeSlot{StartTime: start, EndTime: end, Capacity: input.Capacity}
		if _, dup := seen[slot.ID()]; dup {
			return nil, fmt.Errorf("%w: timeSlots[%d]: duplicate slot %s", ErrInvalidInput, i, slot.ID())
		}
		seen[slot.ID()] = struct{}{}
		slots = append(slots, slot)
	}

	// 3. Cutoff'ы: пустая строка означает "без ограничения"
	settings := &domain.DeliverySettings{
		Shop:          req.Shop,
		BlackoutDates: append([]string(nil), req.BlackoutDates...),
		TimeSlots:     slots,
		Timezone:      req.Timezone,
	}
	if req.CutoffSameDay != "" {
		settings.CutoffSameDay, _ = types.NewTimeStringFromString(req.CutoffSameDay)
	}
	if req.CutoffNextDay != "" {
		settings.CutoffNextDay, _ = types.NewTimeStringFromString(req.CutoffNextDay)
	}

	settings.Normalize()
	return settings, nil
}
