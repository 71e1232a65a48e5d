package notify

import "errors"

var (
	// ErrNotConnected возвращается, когда соединение с брокером не установлено
	ErrNotConnected = errors.New("notify: not connected to broker")

	// ErrPublish возвращается при ошибке публикации события
	ErrPublish = errors.New("notify: failed to publish event")
)
