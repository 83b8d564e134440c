package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset. Binding may be BindingVertex or BindingIndex.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Target resolves the buffer the write lands in, or nil if the provider has none.
func (w BufferWrite) Target() *wgpu.Buffer {
	if w.Provider == nil {
		return nil
	}
	return w.Provider.Buffer(w.Binding)
}

// Empty reports whether the write carries no data.
func (w BufferWrite) Empty() bool {
	return len(w.Data) == 0
}
