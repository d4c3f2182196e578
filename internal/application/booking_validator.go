package application

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Nestaway-Rentals/service-rental/internal/common/domain"
	bookingDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/booking"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ymdPattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)
)

// BookingForm holds raw booking-creation fields as submitted.
type BookingForm struct {
	ListingID       string
	CheckInDate     string
	CheckOutDate    string
	GuestCount      string
	Nights          string
	TotalPrice      string
	SpecialRequests string
}

// BookingPayload is a validated BookingForm.
type BookingPayload struct {
	ListingID       uuid.UUID `json:"listing_id"`
	CheckInDate     string    `json:"check_in_date" validate:"required,ymd"`
	CheckOutDate    string    `json:"check_out_date" validate:"required,ymd"`
	GuestCount      int       `json:"guest_count" validate:"min=1"`
	Nights          int       `json:"nights" validate:"min=1"`
	TotalPrice      float64   `json:"total_price" validate:"gt=0"`
	SpecialRequests string    `json:"special_requests" validate:"max=2000"`

	// CheckIn and CheckOut are the parsed calendar dates, midnight UTC.
	CheckIn  time.Time `json:"-"`
	CheckOut time.Time `json:"-"`
}

// BookingValidator turns raw forms into payloads, reporting every field error at once.
type BookingValidator struct {
	validate *validator.Validate
}

// NewBookingValidator creates a BookingValidator.
func NewBookingValidator() *BookingValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
		return ymdPattern.MatchString(fl.Field().String())
	})
	return &BookingValidator{validate: v}
}

// BookingFormFromMap builds a form from a decoded JSON object, accepting
// numbers or strings for the numeric fields.
func BookingFormFromMap(m map[string]any) BookingForm {
	return BookingForm{
		ListingID:       stringify(m["listing_id"]),
		CheckInDate:     stringify(m["check_in_date"]),
		CheckOutDate:    stringify(m["check_out_date"]),
		GuestCount:      stringify(m["guest_count"]),
		Nights:          stringify(m["nights"]),
		TotalPrice:      stringify(m["total_price"]),
		SpecialRequests: stringify(m["special_requests"]),
	}
}

// Validate checks form and returns the typed payload or an aggregated ValidationError.
func (v *BookingValidator) Validate(form BookingForm) (*BookingPayload, error) {
	fields := map[string]string{}
	payload := &BookingPayload{
		CheckInDate:     strings.TrimSpace(form.CheckInDate),
		CheckOutDate:    strings.TrimSpace(form.CheckOutDate),
		SpecialRequests: strings.TrimSpace(form.SpecialRequests),
	}

	if raw := strings.TrimSpace(form.ListingID); raw == "" {
		fields["listing_id"] = "is required"
	} else if id, err := uuid.Parse(raw); err != nil {
		fields["listing_id"] = "must be a valid UUID"
	} else {
		payload.ListingID = id
	}

	payload.GuestCount = parseIntField(fields, "guest_count", form.GuestCount)
	payload.Nights = parseIntField(fields, "nights", form.Nights)

	if raw := strings.TrimSpace(form.TotalPrice); raw == "" {
		fields["total_price"] = "is required"
	} else if !decimalPattern.MatchString(raw) {
		fields["total_price"] = "must be a decimal number"
	} else if f, err := strconv.ParseFloat(raw, 64); err != nil {
		fields["total_price"] = "must be a decimal number"
	} else {
		payload.TotalPrice = f
	}

	if err := v.validate.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("failed to validate booking: %w", err)
		}
		for _, fe := range verrs {
			if _, seen := fields[fe.Field()]; seen {
				continue
			}
			fields[fe.Field()] = messageFor(fe)
		}
	}

	payload.CheckIn = parseDateField(fields, "check_in_date", payload.CheckInDate)
	payload.CheckOut = parseDateField(fields, "check_out_date", payload.CheckOutDate)

	if len(fields) > 0 {
		return nil, domain.NewFieldValidationError(fields)
	}
	return payload, nil
}

// parseDateField checks that an already well-formed date exists on the
// calendar. Fields that failed the format check are left alone.
func parseDateField(fields map[string]string, name, raw string) time.Time {
	if _, failed := fields[name]; failed {
		return time.Time{}
	}
	t, err := bookingDomain.ParseDate(name, raw)
	if err != nil {
		var de *domain.DomainError
		if errors.As(err, &de) {
			for k, msg := range de.Fields {
				fields[k] = msg
			}
		} else {
			fields[name] = "is not a valid calendar date"
		}
		return time.Time{}
	}
	return t
}

func parseIntField(fields map[string]string, name, raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		fields[name] = "is required"
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fields[name] = "must be an integer"
		return 0
	}
	return n
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "ymd":
		return "must be a date in YYYY-MM-DD format"
	case "min":
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
