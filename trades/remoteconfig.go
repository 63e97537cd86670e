package trades

// Section names accepted by the remote config endpoint.
const (
	SectionAutoStopLoss = "auto_stop_loss"
	SectionTrailingStop = "trailing_stop"
)

// StopSection configures one of the terminal's protective-stop features.
type StopSection struct {
	Enabled      bool `json:"enabled"`
	DistancePips int  `json:"distance_pips"`
}

// RemoteConfig mirrors the terminal-side configuration document. The
// close-all flag lives at the root; the two stop features are section-scoped
// and patched independently.
type RemoteConfig struct {
	CloseAllTrades bool        `json:"closeBloc_allTrade"`
	AutoStopLoss   StopSection `json:"auto_stop_loss"`
	TrailingStop   StopSection `json:"trailing_stop"`
}

// Section returns a pointer to the named section, or nil for an unknown name.
func (c *RemoteConfig) Section(name string) *StopSection {
	switch name {
	case SectionAutoStopLoss:
		return &c.AutoStopLoss
	case SectionTrailingStop:
		return &c.TrailingStop
	}
	return nil
}
