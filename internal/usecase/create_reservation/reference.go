package create_reservation

import (
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/Arena-BookingService/internal/domain"
)

const referenceSuffixLen = 4

// generateReference строит номер бронирования: префикс "BK",
// миллисекундный timestamp в base36 и случайный суффикс, все в верхнем
// регистре. Глобальная уникальность гарантируется уникальным индексом
// в хранилище, а не самим генератором.
func generateReference(now time.Time, entropy int64) string {
	ts := strconv.FormatInt(now.UnixMilli(), 36)

	if entropy < 0 {
		entropy = -entropy
	}
	suffix := strconv.FormatInt(entropy%pow36(referenceSuffixLen), 36)
	for len(suffix) < referenceSuffixLen {
		suffix = "0" + suffix
	}

	return strings.ToUpper(domain.ReferencePrefix + ts + suffix)
}

func pow36(n int) int64 {
	result := int64(1)
	for i := 0; i < n; i++ {
		result *= 36
	}
	return result
}
