// meta/meta.go
package meta

// TickRate defines the simulation frequency in ticks per second.
const TickRate = 60

// TransitSpeed defines how many cells per second a moving piece covers.
const TransitSpeed = 2.5

// CollisionRadius defines the contact distance, in cells, between two pieces.
const CollisionRadius = 0.5

// MaxResource defines the cap of each team's resource pool.
const MaxResource = 4.0

// StartResource defines each team's resource at the start of a match.
const StartResource = 2.0

// RegenRate defines resource units regenerated per second.
const RegenRate = 0.3

// MoveCost defines the resource units charged per admitted move.
const MoveCost = 1

// SearchDepth defines the minimax depth of the strongest AI.
const SearchDepth = 2

// Goroutines defines the number of goroutines searching root moves in parallel.
const Goroutines = 4

// MaxMatchSeconds bounds headless matches in simulated seconds.
const MaxMatchSeconds = 900
