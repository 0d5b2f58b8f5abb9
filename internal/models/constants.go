package models

const (
	StatusPending = "pending"
	StatusFailed  = "failed"
)

// Предлагаемые тарифы мойки. Первый элемент — значение по умолчанию.
var DefaultServices = []string{
	"Ekspres Vask",
	"Premium Vask",
	"Deluxe Detalje",
}

const (
	// StorageKey имя списка заявок в резервном хранилище
	StorageKey = "bookings"

	// ReferencePrefix префикс кода бронирования
	ReferencePrefix = "BK"

	// ReferenceSuffixLen длина случайного суффикса кода
	ReferenceSuffixLen = 4

	// RateLimitRequests количество запросов в окне по умолчанию
	RateLimitRequests = 10

	// RateLimitWindow окно ограничения частоты запросов в секундах
	RateLimitWindow = 60
)

// NormalizeService maps unknown or empty tier names onto the default tier.
// The UI always submits a valid value; this guards direct API calls.
func NormalizeService(service string, services []string) string {
	if len(services) == 0 {
		services = DefaultServices
	}
	for _, s := range services {
		if s == service {
			return service
		}
	}
	return services[0]
}
