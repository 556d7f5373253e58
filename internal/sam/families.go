package sam

import "github.com/cfusterbarcelo/SAMJ/internal/backend"

// EfficientSAMName is the full display name of the EfficientSAM family.
const EfficientSAMName = "EfficientSAM"

// EfficientViTSAMName is the full display name of the EfficientViT-SAM (l2)
// family.
const EfficientViTSAMName = "EfficientViTSAM (l2)"

// EfficientSAMDescriptor returns the fixed identity of the EfficientSAM
// family.
func EfficientSAMDescriptor() Descriptor {
	return Descriptor{
		ID:             "efficientsam",
		Name:           EfficientSAMName,
		Description:    "Bla bla Efficient SAM",
		InputImageAxes: "yxc",
	}
}

// EfficientViTSAMDescriptor returns the fixed identity of the
// EfficientViT-SAM (l2) family.
func EfficientViTSAMDescriptor() Descriptor {
	return Descriptor{
		ID:             "efficientvitsam-l2",
		Name:           EfficientViTSAMName,
		Description:    "Bla bla EfficientViT SAM (l2)",
		InputImageAxes: "yxc",
	}
}

// EfficientSAM returns an unbound adapter for the EfficientSAM family
// backed by the subprocess launcher.
func EfficientSAM(spec backend.LaunchSpec) *Adapter {
	return NewAdapter(EfficientSAMDescriptor(), spec, backend.NewSubprocessLauncher())
}

// EfficientViTSAM returns an unbound adapter for the EfficientViT-SAM (l2)
// family backed by the subprocess launcher.
func EfficientViTSAM(spec backend.LaunchSpec) *Adapter {
	return NewAdapter(EfficientViTSAMDescriptor(), spec, backend.NewSubprocessLauncher())
}
