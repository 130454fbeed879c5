package segheap_test

import (
	"reflect"

	"github.com/segheap/segheap"
	"go.uber.org/mock/gomock"
)

// MockHeapOracle is a hand-written stand-in for what `mockgen` would
// generate for the HeapOracle interface. It exists so heap-extension
// failure -- the allocator's one error kind -- can be injected
// deterministically in tests without needing a HeapOracle that can
// actually be driven out of memory.
type MockHeapOracle struct {
	ctrl     *gomock.Controller
	recorder *MockHeapOracleMockRecorder
}

type MockHeapOracleMockRecorder struct {
	mock *MockHeapOracle
}

func NewMockHeapOracle(ctrl *gomock.Controller) *MockHeapOracle {
	m := &MockHeapOracle{ctrl: ctrl}
	m.recorder = &MockHeapOracleMockRecorder{mock: m}
	return m
}

func (m *MockHeapOracle) EXPECT() *MockHeapOracleMockRecorder {
	return m.recorder
}

func (m *MockHeapOracle) Extend(n int) (segheap.Ptr, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Extend", n)
	ret0, _ := ret[0].(segheap.Ptr)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockHeapOracleMockRecorder) Extend(n any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Extend", reflect.TypeOf((*MockHeapOracle)(nil).Extend), n)
}

func (m *MockHeapOracle) Lo() segheap.Ptr {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Lo")
	ret0, _ := ret[0].(segheap.Ptr)
	return ret0
}

func (mr *MockHeapOracleMockRecorder) Lo() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Lo", reflect.TypeOf((*MockHeapOracle)(nil).Lo))
}

func (m *MockHeapOracle) Hi() segheap.Ptr {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Hi")
	ret0, _ := ret[0].(segheap.Ptr)
	return ret0
}

func (mr *MockHeapOracleMockRecorder) Hi() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Hi", reflect.TypeOf((*MockHeapOracle)(nil).Hi))
}

func (m *MockHeapOracle) Reset() {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Reset")
}

func (mr *MockHeapOracleMockRecorder) Reset() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Reset", reflect.TypeOf((*MockHeapOracle)(nil).Reset))
}

func (m *MockHeapOracle) View(offset segheap.Ptr, length int) ([]byte, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "View", offset, length)
	ret0, _ := ret[0].([]byte)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockHeapOracleMockRecorder) View(offset, length any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "View", reflect.TypeOf((*MockHeapOracle)(nil).View), offset, length)
}
