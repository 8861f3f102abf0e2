package redemption

import "errors"

var (
	// ErrRedemptionNotFound возвращается, когда у клиента нет активной награды с таким ID
	ErrRedemptionNotFound = errors.New("redemption.repository: redemption not found")

	// ErrNotActive возвращается, если награда уже привязана к записи или использована
	ErrNotActive = errors.New("redemption.repository: redemption is not active")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("redemption.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("redemption.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("redemption.repository: failed to scan row")
)
