package backends

import (
	"slices"

	"github.com/ravi-parthasarathy/qsirecon/pkg/recon"
)

var pyafqContracts = []*Contract{
	{
		Software:    recon.SoftwarePyAFQ,
		Action:      recon.ActionTractometry,
		InputSlots:  slices.Concat(dwiSlots, []string{"t1_preproc", "t1_2_mni", "tck_file"}),
		OutputSlots: []string{"afq_dir"},
		InnerNodes:  wrap("run_afq", "ds_afq"),
		Params: []ParamRule{
			{Path: "use_external_tracking", Kind: KindBool},
			{Path: "directions", Kind: KindString, Choices: []string{"prob", "det"}},
			{Path: "max_angle", Kind: KindNumber},
			{Path: "n_seeds", Kind: KindNumber},
			{Path: "random_seeds", Kind: KindBool},
			{Path: "export", Kind: KindString},
		},
	},
}
