package gdext

import "github.com/rotisserie/eris"

// Sentinel errors returned by the collectors and the session. Callers match
// them with eris.Is since they are usually wrapped with more context.
var (
	ErrNoProject           = eris.New("no Godot project detected")
	ErrProjectRequired     = eris.New("can't build a GDNative library without a Godot project")
	ErrNoLibrary           = eris.New("can't build a NativeScript extension without a GDNative library")
	ErrMultipleLibraries   = eris.New("can't build multiple GDNative libraries")
	ErrUnsupportedPlatform = eris.New("unsupported platform")
	ErrNameCollision       = eris.New("name is already used")
	ErrNoVirtualEnv        = eris.New("please run this command inside the virtual environment")
)
