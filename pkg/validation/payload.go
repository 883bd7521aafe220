package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"toro-system/internal/dto"
	"toro-system/pkg/constants"
)

const maxIssueDescriptionLen = 2000

const msgRequired = "Field is required"

var createOrderFields = []string{
	"equipment_type",
	"equipment_id",
	"issue_description",
	"priority",
	"requester_name",
	"department",
	"contact_phone",
	"contact_email",
}

var requiredOrderFields = []string{
	"equipment_type",
	"equipment_id",
	"issue_description",
	"requester_name",
	"department",
	"contact_phone",
	"contact_email",
}

func enumMessage(choices []string) string {
	return fmt.Sprintf("Must be one of: %s", strings.Join(choices, ", "))
}

// ValidateCreateOrder проверяет сырой JSON-объект создания заявки и
// возвращает нормализованный DTO либо карту поле -> сообщение.
// Ошибки накапливаются по всем полям сразу, схема строгая:
// неизвестные поля отклоняются.
func ValidateCreateOrder(payload map[string]interface{}) (dto.CreateOrderDTO, map[string]string) {
	out := dto.CreateOrderDTO{Priority: constants.PriorityMedium}
	errs := make(map[string]string)

	known := make(map[string]bool, len(createOrderFields))
	for _, name := range createOrderFields {
		known[name] = true
	}
	for key := range payload {
		if !known[key] {
			errs[key] = "Unknown field"
		}
	}

	// Присутствующие поля приводим к строкам и обрезаем пробелы.
	values := make(map[string]string, len(payload))
	for _, name := range createOrderFields {
		raw, ok := payload[name]
		if !ok || raw == nil {
			continue
		}
		s, isString := raw.(string)
		if !isString {
			errs[name] = "Must be a string"
			continue
		}
		values[name] = strings.TrimSpace(s)
	}

	for _, name := range requiredOrderFields {
		if _, already := errs[name]; already {
			continue
		}
		if values[name] == "" {
			errs[name] = msgRequired
		}
	}

	if v, ok := values["equipment_type"]; ok && errs["equipment_type"] == "" {
		out.EquipmentType = v
	}

	if v, ok := values["equipment_id"]; ok && errs["equipment_id"] == "" {
		upper := strings.ToUpper(v)
		if !equipmentIDRegexp.MatchString(upper) {
			errs["equipment_id"] = "Must contain only latin letters, digits and dashes (3-40 characters)"
		} else {
			out.EquipmentID = upper
		}
	}

	if v, ok := values["issue_description"]; ok && errs["issue_description"] == "" {
		if utf8.RuneCountInString(v) > maxIssueDescriptionLen {
			errs["issue_description"] = fmt.Sprintf("Must not exceed %d characters", maxIssueDescriptionLen)
		} else {
			out.IssueDescription = v
		}
	}

	if v, ok := values["priority"]; ok && errs["priority"] == "" && v != "" {
		if !constants.IsValidPriority(v) {
			errs["priority"] = enumMessage(constants.OrderPriorities)
		} else {
			out.Priority = v
		}
	}

	if v, ok := values["requester_name"]; ok && errs["requester_name"] == "" {
		out.RequesterName = v
	}

	if v, ok := values["department"]; ok && errs["department"] == "" {
		collapsed := whitespaceRegexp.ReplaceAllString(v, " ")
		if collapsed == "" {
			errs["department"] = msgRequired
		} else {
			out.Department = collapsed
		}
	}

	if v, ok := values["contact_phone"]; ok && errs["contact_phone"] == "" {
		if !phoneRegexp.MatchString(v) {
			errs["contact_phone"] = "Must match format +7-XXX-XXX-XX-XX"
		} else {
			out.ContactPhone = v
		}
	}

	if v, ok := values["contact_email"]; ok && errs["contact_email"] == "" {
		if !emailRegexp.MatchString(v) {
			errs["contact_email"] = "Must be a valid email address"
		} else {
			out.ContactEmail = v
		}
	}

	return out, errs
}

// ValidateOrderFilters проверяет query-параметры списка заявок.
// Отсутствующий фильтр просто не попадает в результат.
func ValidateOrderFilters(query url.Values) (dto.OrderFilterDTO, map[string]string) {
	var out dto.OrderFilterDTO
	errs := make(map[string]string)

	for key := range query {
		switch key {
		case "priority", "status", "department":
		default:
			errs[key] = "Unknown filter"
		}
	}

	if query.Has("priority") {
		v := strings.TrimSpace(query.Get("priority"))
		if !constants.IsValidPriority(v) {
			errs["priority"] = enumMessage(constants.OrderPriorities)
		} else {
			out.Priority = &v
		}
	}

	if query.Has("status") {
		v := strings.TrimSpace(query.Get("status"))
		if !constants.IsValidStatus(v) {
			errs["status"] = enumMessage(constants.OrderStatuses)
		} else {
			out.Status = &v
		}
	}

	if query.Has("department") {
		v := whitespaceRegexp.ReplaceAllString(strings.TrimSpace(query.Get("department")), " ")
		if v == "" {
			errs["department"] = "Must not be empty"
		} else {
			out.Department = &v
		}
	}

	return out, errs
}
