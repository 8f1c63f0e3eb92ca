// Package logging centralizes slog construction for the application.
//
// Two handler formats ship: a console handler producing aligned
// timestamp/level/component lines for interactive use, and a JSON handler
// with ts/level/msg keys for log files and machine ingestion. Component
// loggers and shared field-key constants keep attribute naming uniform, and
// context helpers stamp media paths and run identifiers onto every record
// emitted during an item's processing.
package logging
