package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Client клиент каталога: бизнесы, услуги и сотрудники
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента каталога
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetBusiness получает бизнес с часами работы
func (c *Client) GetBusiness(ctx context.Context, businessID int64) (*domain.Business, error) {
	var business Business
	if err := c.get(ctx, fmt.Sprintf("/internal/businesses/%d", businessID), ErrBusinessNotFound, &business); err != nil {
		return nil, err
	}
	return business.ToDomain()
}

// GetService получает услугу
func (c *Client) GetService(ctx context.Context, serviceID int64) (*domain.Service, error) {
	var service Service
	if err := c.get(ctx, fmt.Sprintf("/internal/services/%d", serviceID), ErrServiceNotFound, &service); err != nil {
		return nil, err
	}
	return service.ToDomain(), nil
}

// GetStaff получает сотрудника с расписанием по дням недели
func (c *Client) GetStaff(ctx context.Context, staffID int64) (*domain.Staff, error) {
	var staff Staff
	if err := c.get(ctx, fmt.Sprintf("/internal/staff/%d", staffID), ErrStaffNotFound, &staff); err != nil {
		return nil, err
	}
	return staff.ToDomain()
}

func (c *Client) get(ctx context.Context, path string, notFound error, out interface{}) error {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Catalog request GET %s failed: %v", path, err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFound
	case http.StatusBadRequest:
		return fmt.Errorf("%w: bad request for %s: %s", ErrInvalidResponse, path, readError(resp.Body))
	default:
		c.log.Warn("Catalog GET %s returned status %d", path, resp.StatusCode)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, readError(resp.Body))
	}

	// Парсим ответ
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}

func readError(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, 4096))

	var errResp ErrorResponse
	if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Message != "" {
		return errResp.Message
	}
	return string(raw)
}

// IsNotFound returns true for any of the catalog not-found errors
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBusinessNotFound) || errors.Is(err, ErrServiceNotFound) || errors.Is(err, ErrStaffNotFound)
}
