// Package domain defines the core data models, contracts and error kinds
// shared across modmail. It contains plain types and interfaces only; the
// types and interfaces subpackages are re-exported here via aliases.
package domain
