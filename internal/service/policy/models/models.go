package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// GetPolicyRequest запрос на чтение политики бизнеса (или услуги бизнеса)
type GetPolicyRequest struct {
	UserID     int64
	BusinessID int64
	ServiceID  *int64 // nil = политика на весь бизнес
}

// UpdatePolicyRequest запрос на изменение переопределений.
// Все поля опциональны, обновляются только переданные значения.
type UpdatePolicyRequest struct {
	UserID           int64  `json:"-"`
	BusinessID       int64  `json:"-"`
	ServiceID        *int64 `json:"serviceId,omitempty"`
	MaxAdvanceDays   *int   `json:"maxAdvanceDays,omitempty"`
	MaxDailyBookings *int   `json:"maxDailyBookings,omitempty"`
	SlotStepMinutes  *int   `json:"slotStepMinutes,omitempty"`
}

// ApplyTo применяет обновления к переопределению
func (r *UpdatePolicyRequest) ApplyTo(p *domain.BookingPolicy) {
	if r.MaxAdvanceDays != nil {
		p.MaxAdvanceDays = r.MaxAdvanceDays
	}
	if r.MaxDailyBookings != nil {
		p.MaxDailyBookings = r.MaxDailyBookings
	}
	if r.SlotStepMinutes != nil {
		p.SlotStepMinutes = r.SlotStepMinutes
	}
}

// IsEmpty true, если запрос ничего не меняет
func (r *UpdatePolicyRequest) IsEmpty() bool {
	return r.MaxAdvanceDays == nil && r.MaxDailyBookings == nil && r.SlotStepMinutes == nil
}

// Response модели

// LimitsResponse итоговые лимиты
type LimitsResponse struct {
	MaxAdvanceDays   int `json:"maxAdvanceDays"`
	MaxDailyBookings int `json:"maxDailyBookings"`
	SlotStepMinutes  int `json:"slotStepMinutes"`
}

// OverrideResponse сохранённое переопределение
type OverrideResponse struct {
	ID               int64     `json:"id"`
	ServiceID        *int64    `json:"serviceId,omitempty"`
	MaxAdvanceDays   *int      `json:"maxAdvanceDays,omitempty"`
	MaxDailyBookings *int      `json:"maxDailyBookings,omitempty"`
	SlotStepMinutes  *int      `json:"slotStepMinutes,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// PolicyResponse политика бизнеса: переопределение уровня и итоговые лимиты
type PolicyResponse struct {
	BusinessID int64             `json:"businessId"`
	ServiceID  *int64            `json:"serviceId,omitempty"`
	Override   *OverrideResponse `json:"override,omitempty"` // nil = используются значения по умолчанию
	Effective  LimitsResponse    `json:"effective"`
}

// Методы конвертации

// FromDomainPolicy конвертирует переопределение в DTO
func FromDomainPolicy(p *domain.BookingPolicy) *OverrideResponse {
	if p == nil {
		return nil
	}
	return &OverrideResponse{
		ID:               p.ID,
		ServiceID:        p.ServiceID,
		MaxAdvanceDays:   p.MaxAdvanceDays,
		MaxDailyBookings: p.MaxDailyBookings,
		SlotStepMinutes:  p.SlotStepMinutes,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// FromDomainLimits конвертирует итоговые лимиты в DTO
func FromDomainLimits(l domain.EffectiveLimits) LimitsResponse {
	return LimitsResponse{
		MaxAdvanceDays:   l.MaxAdvanceDays,
		MaxDailyBookings: l.MaxDailyBookings,
		SlotStepMinutes:  l.SlotStepMinutes,
	}
}
