package tui

import (
	"os"
	"os/signal"
	"syscall"
)

// installSignalHandlers routes resize and interrupt signals to a goroutine.
// Interrupts only raise a flag and close Interrupted(); the actual Stop runs
// in whoever supervises the Manager, outside any lock the producer holds.
func (m *Manager) installSignalHandlers() {
	m.sigCh = make(chan os.Signal, 4)
	signals := []os.Signal{os.Interrupt, syscall.SIGTERM}
	if resizeSignal != nil {
		signals = append(signals, resizeSignal)
	}
	signal.Notify(m.sigCh, signals...)

	go m.signalLoop(m.sigCh, m.stopCh)
}

func (m *Manager) stopSignalHandlers() {
	if m.sigCh != nil {
		signal.Stop(m.sigCh)
	}
}

func (m *Manager) signalLoop(sigCh <-chan os.Signal, stopCh <-chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		case sig := <-sigCh:
			m.dispatchSignal(sig)
		}
	}
}

func (m *Manager) dispatchSignal(sig os.Signal) {
	if resizeSignal != nil && sig == resizeSignal {
		m.renderer.RefreshTerminalSize()
		return
	}
	m.logger.Debug().Str("signal", sig.String()).Msg("Interrupt requested")
	m.requestInterrupt()
}
