package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type codeInfo struct {
	status  int
	message string
}

var codes = map[string]codeInfo{
	// not found
	"doctor_not_found":      {http.StatusNotFound, "Doctor not found."},
	"facility_not_found":    {http.StatusNotFound, "The doctor has not set up a facility yet."},
	"service_not_found":     {http.StatusNotFound, "Consultation service not found."},
	"appointment_not_found": {http.StatusNotFound, "Appointment not found."},
	"lesion_not_found":      {http.StatusNotFound, "Lesion image not found."},
	"connection_not_found":  {http.StatusNotFound, "Connection not found."},
	"user_not_found":        {http.StatusNotFound, "User not found."},

	// conflicts
	"time_conflict":      {http.StatusConflict, "That time was just booked. Pick another slot."},
	"slot_unavailable":   {http.StatusConflict, "That time is not available."},
	"invalid_state":      {http.StatusConflict, "The appointment cannot change to that state."},
	"already_connected":  {http.StatusConflict, "A connection with this doctor already exists."},
	"email_already_used": {http.StatusConflict, "An account with this email already exists."},
	"slug_already_used":  {http.StatusConflict, "This facility address is taken."},

	// forbidden
	"not_connected": {http.StatusForbidden, "You need an accepted connection first."},

	// upstream
	"analysis_failed":      {http.StatusBadGateway, "The image could not be analysed. Try again later."},
	"analysis_unavailable": {http.StatusServiceUnavailable, "Image analysis is not configured."},

	// validation
	"invalid_date":              {http.StatusBadRequest, "Invalid date."},
	"invalid_date_or_time":      {http.StatusBadRequest, "Invalid date or time."},
	"invalid_month":             {http.StatusBadRequest, "Invalid year or month."},
	"range_too_large":           {http.StatusBadRequest, "Date range is too large."},
	"too_soon":                  {http.StatusBadRequest, "That time is in the past."},
	"outside_availability":      {http.StatusBadRequest, "Outside the doctor's availability."},
	"cannot_book_self":          {http.StatusBadRequest, "You cannot book yourself."},
	"appointment_in_past":       {http.StatusBadRequest, "The appointment has already started."},
	"appointment_not_started":   {http.StatusBadRequest, "The appointment has not started yet."},
	"appointment_not_confirmed": {http.StatusBadRequest, "The appointment is not confirmed."},
	"call_not_open":             {http.StatusBadRequest, "The call is not open at this time."},
	"image_required":            {http.StatusBadRequest, "An image is required."},
	"image_too_large":           {http.StatusRequestEntityTooLarge, "Images are limited to 10 MiB."},
	"unsupported_image":         {http.StatusBadRequest, "Only JPEG, PNG and WebP images are supported."},
}

// Respond writes err as JSON. Business errors map to their status; anything
// else is a 500 with fallbackCode.
func Respond(c *gin.Context, err error, fallbackCode string) {
	code, ok := BusinessCode(err)
	if !ok {
		Internal(c, fallbackCode, "Unexpected error.")
		return
	}

	info, known := codes[code]
	if !known {
		BadRequest(c, code, code)
		return
	}
	Write(c, info.status, code, info.message)
}

// Status reports the HTTP status Respond would use for a business code.
func Status(code string) int {
	if info, ok := codes[code]; ok {
		return info.status
	}
	return http.StatusBadRequest
}
