package services

// Identity is the authenticated actor attached to a request. It is built
// once at the auth boundary from validated token claims and passed by value
// into the services layer.
type Identity struct {
	ActorID   string
	ActorName string
}
