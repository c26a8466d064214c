package engine

// Game is the contract every game run by a Core implements.
//
// A Core calls the methods in this order:
//
//	Initialize
//	loop until quit:
//	  Draw
//	  (present)
//	  Update
//	  HandleInput, once per key transition received since the last frame
//	Destroy
//
// Input is therefore seen by the Update of the following frame.
type Game interface {
	// Initialize is called once before the first Draw.
	// The Core is fully constructed and can be queried and drawn to.
	Initialize(core *Core)

	// Update advances the game by dt seconds, the time elapsed since the
	// previous Update. dt is never negative and varies from frame to frame.
	Update(core *Core, dt float64)

	// Draw renders the current state. Only drawing calls belong here.
	Draw(core *Core)

	// HandleInput receives key transitions. Auto-repeat is never delivered.
	// Prefer recording the state and acting on it in Update.
	HandleInput(key Key, pressed bool)

	// Destroy is called once after the loop exits.
	Destroy()
}
