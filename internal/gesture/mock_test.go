package gesture

// --- テスト用のモックコラボレータ ---

type setFeatureCall struct {
	featureID byte
	payload   []byte
}

type readAtCall struct {
	command  byte
	addrBits int
	address  uint16
	length   int
	dummy    int
}

type mockTransport struct {
	setFeatureCalls []setFeatureCall
	setFeatureErr   error

	scanModeCalls int
	scanModeErr   error

	readAtCalls []readAtCall
	readAtData  []byte
	readAtErr   error
}

func (m *mockTransport) SetFeature(featureID byte, payload []byte) error {
	call := setFeatureCall{featureID: featureID, payload: append([]byte(nil), payload...)}
	m.setFeatureCalls = append(m.setFeatureCalls, call)
	return m.setFeatureErr
}

func (m *mockTransport) ReadAt(command byte, addrBits int, address uint16, length int, dummy int) ([]byte, error) {
	m.readAtCalls = append(m.readAtCalls, readAtCall{
		command:  command,
		addrBits: addrBits,
		address:  address,
		length:   length,
		dummy:    dummy,
	})
	if m.readAtErr != nil {
		return nil, m.readAtErr
	}
	return m.readAtData, nil
}

func (m *mockTransport) SetScanMode(mode byte, extra byte) error {
	m.scanModeCalls++
	return m.scanModeErr
}

type mockInterrupt struct {
	disableCalls int
	disableErr   error
	enableCalls  int
	enableErr    error
}

func (m *mockInterrupt) DisableNoSync() error {
	m.disableCalls++
	return m.disableErr
}

func (m *mockInterrupt) Enable() error {
	m.enableCalls++
	return m.enableErr
}

func newTestDriver() (*Driver, *mockTransport, *mockInterrupt) {
	tr := &mockTransport{}
	irq := &mockInterrupt{}
	return NewDriver(tr, irq), tr, irq
}
