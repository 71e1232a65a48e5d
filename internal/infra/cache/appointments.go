// Package cache декорирует репозиторий записей кешем в Redis.
// Кешируются только точечные чтения вне транзакций; выборка активного
// набора для проверки конфликтов всегда идёт в БД, иначе FOR UPDATE
// внутри сериализуемой транзакции потеряет смысл.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

// CachedAppointments декоратор репозитория записей с кешем в Redis.
// client == nil означает выключенный кеш: все вызовы идут напрямую в репозиторий.
type CachedAppointments struct {
	repo   AppointmentRepository
	client *redis.Client
	ttl    time.Duration
	log    Logger
}

// NewCachedAppointments создает декоратор. При client == nil кеширование отключено.
func NewCachedAppointments(repo AppointmentRepository, client *redis.Client, ttl time.Duration, log Logger) *CachedAppointments {
	return &CachedAppointments{
		repo:   repo,
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func appointmentKey(id int64) string {
	return fmt.Sprintf("appointment:%d", id)
}

func clientKey(clientID int64) string {
	return fmt.Sprintf("client_appointments:%d", clientID)
}

// bypass кеш не используется внутри транзакции: чтение должно видеть
// незакоммиченные изменения текущей транзакции и удерживать блокировки
func (c *CachedAppointments) bypass(ctx context.Context) bool {
	return c.client == nil || dbmetrics.IsInTransaction(ctx)
}

// invalidate сбрасывает ключи; ошибки Redis не фатальны
func (c *CachedAppointments) invalidate(ctx context.Context, keys ...string) {
	if c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("cache: failed to invalidate keys %v: %v", keys, err)
	}
}

// GetByID читает запись, подставляя результат из кеша вне транзакций
func (c *CachedAppointments) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	if c.bypass(ctx) {
		return c.repo.GetByID(ctx, id)
	}

	key := appointmentKey(id)
	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var apt domain.Appointment
		if err := json.Unmarshal(raw, &apt); err == nil {
			c.log.Debug("cache: hit %s", key)
			return &apt, nil
		}
		c.invalidate(ctx, key)
	}

	apt, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(apt); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.Warn("cache: failed to store %s: %v", key, err)
		}
	}

	return apt, nil
}

// GetByClient читает записи клиента, подставляя результат из кеша вне транзакций
func (c *CachedAppointments) GetByClient(ctx context.Context, clientID int64) ([]*domain.Appointment, error) {
	if c.bypass(ctx) {
		return c.repo.GetByClient(ctx, clientID)
	}

	key := clientKey(clientID)
	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var appointments []*domain.Appointment
		if err := json.Unmarshal(raw, &appointments); err == nil {
			c.log.Debug("cache: hit %s", key)
			return appointments, nil
		}
		c.invalidate(ctx, key)
	}

	appointments, err := c.repo.GetByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(appointments); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.Warn("cache: failed to store %s: %v", key, err)
		}
	}

	return appointments, nil
}

// GetAllActive всегда читает из БД: результат участвует в проверке конфликтов
func (c *CachedAppointments) GetAllActive(ctx context.Context) ([]*domain.Appointment, error) {
	return c.repo.GetAllActive(ctx)
}

// GetByGroup всегда читает из БД: состав серии меняется при частичных сбоях
func (c *CachedAppointments) GetByGroup(ctx context.Context, groupID string) ([]*domain.Appointment, error) {
	return c.repo.GetByGroup(ctx, groupID)
}

// Create создает запись и сбрасывает кеш клиента
func (c *CachedAppointments) Create(ctx context.Context, apt *domain.Appointment) (*domain.Appointment, error) {
	created, err := c.repo.Create(ctx, apt)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, clientKey(created.ClientID))
	return created, nil
}

// Update обновляет запись и сбрасывает её ключи
func (c *CachedAppointments) Update(ctx context.Context, apt *domain.Appointment) (*domain.Appointment, error) {
	updated, err := c.repo.Update(ctx, apt)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, appointmentKey(apt.ID), clientKey(apt.ClientID))
	return updated, nil
}

// Delete удаляет запись и сбрасывает её ключ
func (c *CachedAppointments) Delete(ctx context.Context, id int64) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, appointmentKey(id))
	return nil
}

// MoveToCancelled переносит запись в архив и сбрасывает её ключ
func (c *CachedAppointments) MoveToCancelled(ctx context.Context, id int64, reason string, cancelledBy *int64, cancelledByRole string) error {
	if err := c.repo.MoveToCancelled(ctx, id, reason, cancelledBy, cancelledByRole); err != nil {
		return err
	}
	c.invalidate(ctx, appointmentKey(id))
	return nil
}

// SetAddOns заменяет дополнения записи
func (c *CachedAppointments) SetAddOns(ctx context.Context, appointmentID int64, addOnServiceIDs []int64) error {
	return c.repo.SetAddOns(ctx, appointmentID, addOnServiceIDs)
}
