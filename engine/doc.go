// Package engine opens SQLite databases with the pure-Go driver and
// installs the vector SQL functions (vec_cosine, vec_l2) on it. Bootstrap is
// the one-time initialization step callers run at startup before using a
// SQLite-backed record store.
package engine
