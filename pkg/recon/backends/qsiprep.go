package backends

import (
	"slices"

	"github.com/ravi-parthasarathy/qsirecon/pkg/recon"
)

var gradientSlots = []string{"dwi_file", "bval_file", "bvec_file", "b_file", "btable_file"}

var qsiprepContracts = []*Contract{
	{
		Software:    recon.SoftwareQSIPrep,
		Action:      recon.ActionConform,
		InputSlots:  slices.Concat(gradientSlots, []string{"dwi_mask"}),
		OutputSlots: slices.Concat(gradientSlots, []string{"dwi_mask"}),
		InnerNodes:  wrap("conform_dwi"),
		Params: []ParamRule{
			{Path: "orientation", Kind: KindString, Choices: []string{"LPS", "LAS", "RAS"}},
		},
	},
	{
		Software:    recon.SoftwareQSIPrep,
		Action:      recon.ActionDiscardRepeatedSamples,
		InputSlots:  gradientSlots,
		OutputSlots: gradientSlots,
		InnerNodes:  wrap("remove_duplicates"),
	},
	{
		Software:    recon.SoftwareQSIPrep,
		Action:      recon.ActionControllability,
		InputSlots:  []string{"matfile"},
		OutputSlots: []string{"matfile"},
		InnerNodes:  wrap("calc_control", "ds_control"),
	},
	{
		Software:    recon.SoftwareQSIPrep,
		Action:      recon.ActionMifToFib,
		InputSlots:  []string{"fod_sh_mif", "dwi_mask"},
		OutputSlots: []string{"fibgz"},
		InnerNodes:  wrap("convert_to_fib", "ds_fibgz"),
	},
	{
		Software:    recon.SoftwareQSIPrep,
		Action:      recon.ActionReorientFSLStd,
		InputSlots:  []string{"dwi_file", "bval_file", "bvec_file", "dwi_mask"},
		OutputSlots: []string{"dwi_file", "bval_file", "bvec_file", "dwi_mask"},
		InnerNodes:  wrap("reorient_dwi", "reorient_mask", "ds_dwi", "ds_bval", "ds_bvec", "ds_mask"),
	},
	{
		Software:    recon.SoftwareQSIPrep,
		Action:      recon.ActionSteinhardt,
		InputSlots:  []string{"fod_sh_mif"},
		OutputSlots: []string{"q2_file", "q4_file", "q6_file", "q8_file"},
		InnerNodes:  wrap("calc_sop", "ds_sop_q2", "ds_sop_q4", "ds_sop_q6", "ds_sop_q8"),
		Params: []ParamRule{
			{Path: "order", Kind: KindNumber},
			{Path: "sh_mode", Kind: KindString, Choices: []string{"mrtrix3", "dipy"}},
		},
	},
}
