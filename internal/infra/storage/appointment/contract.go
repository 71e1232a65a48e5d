package appointment

import (
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

// Переиспользуем интерфейс executor из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
