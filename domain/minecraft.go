package domain

type MinecraftPlayers struct {
	Online int `json:"online"`
	Max    int `json:"max"`
}

// MinecraftStatus is the server list ping answer reduced to what clients display.
type MinecraftStatus struct {
	Online  bool             `json:"online"`
	Players MinecraftPlayers `json:"players"`
	Version string           `json:"version"`
	Motd    string           `json:"motd"`
}
