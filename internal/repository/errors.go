// Package repository contains data access logic for the flight catalog
// and booking tables, plus the sentinel errors shared across layers.
// These sentinels let handlers distinguish not-found and conflict
// conditions from storage failures: not-found and conflict map to 404
// and 409 responses, anything else to 500.
package repository

import "errors"

// ErrFlightNotFound indicates the flight number is not in the current
// working set (or, for catalog lookups, not in the catalog).
var ErrFlightNotFound = errors.New("flight not found")

// ErrBookingNotFound indicates no booking exists with the given id.
var ErrBookingNotFound = errors.New("booking not found")

// ErrSeatUnavailable indicates the requested seat is already booked.
var ErrSeatUnavailable = errors.New("seat already booked")

// ErrInvalidSeat indicates a seat number outside the 1-100 range.
var ErrInvalidSeat = errors.New("invalid seat number")
