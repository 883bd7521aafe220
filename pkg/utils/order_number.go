package utils

import (
	"fmt"
	"strconv"
	"strings"
)

const orderNumberTag = "TORO"

// OrderNumberPrefix возвращает префикс номеров заявок за указанный год,
// например "TORO-2026-".
func OrderNumberPrefix(year int) string {
	return fmt.Sprintf("%s-%d-", orderNumberTag, year)
}

// NextOrderNumber вычисляет следующий номер заявки формата TORO-<год>-NNN.
// latestNumber — наибольший существующий номер за год ("" если заявок нет),
// latestID — id строки с этим номером, запасной источник последовательности
// на случай испорченного номера.
//
// Ширина последовательности минимум 3 цифры, но не усекается:
// после TORO-2026-999 идет TORO-2026-1000.
func NextOrderNumber(year int, latestNumber string, latestID int64) string {
	seq := 1
	if latestNumber != "" {
		parts := strings.Split(latestNumber, "-")
		if n, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			seq = n + 1
		} else {
			// Кто-то вручную испортил номер — отталкиваемся от id строки,
			// чтобы не получить коллизию.
			seq = int(latestID) + 1
		}
	}
	return fmt.Sprintf("%s%03d", OrderNumberPrefix(year), seq)
}
