// Package diary reads a film-viewing diary exported as CSV.
//
// The file must carry the Date, Name, Year, Rating, and Rewatch columns; a
// missing column is a configuration error reported before any other work.
// Individual cells are coerced leniently: an unparseable date, year, or
// rating becomes nil and the row is kept.
package diary
