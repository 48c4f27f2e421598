package backends

import (
	"slices"

	"github.com/ravi-parthasarathy/qsirecon/pkg/recon"
)

var dsiStudioScalars = []string{"gfa_file", "qa_file", "iso_file", "fa_file", "md_file", "ad_file", "rd_file"}

var dsiStudioContracts = []*Contract{
	{
		Software:    recon.SoftwareDSIStudio,
		Action:      recon.ActionReconstruction,
		InputSlots:  slices.Concat(dwiSlots, []string{"btable_file"}),
		OutputSlots: []string{"fibgz"},
		InnerNodes: wrap(
			slices.Concat(
				[]string{"create_src", "src_qc", "gqi_recon", "ds_qc", "ds_fibgz"},
				reportNodes("peaks", "odfs"),
			)...,
		),
		Params: []ParamRule{
			{Path: "method", Kind: KindString, Choices: []string{"gqi", "dti"}},
			{Path: "param0", Kind: KindNumber},
		},
	},
	{
		Software:    recon.SoftwareDSIStudio,
		Action:      recon.ActionExport,
		InputSlots:  []string{"fibgz"},
		OutputSlots: dsiStudioScalars,
		InnerNodes:  wrap("export_scalars", "ds_gfa", "ds_qa", "ds_iso", "ds_fa", "ds_md", "ds_ad", "ds_rd"),
	},
	{
		Software:    recon.SoftwareDSIStudio,
		Action:      recon.ActionTractography,
		InputSlots:  []string{"fibgz", "dwi_mask"},
		OutputSlots: []string{"trk_file", "fibgz"},
		InnerNodes:  wrap("tracking", "ds_tracking"),
		Params: []ParamRule{
			{Path: "fiber_count", Kind: KindNumber},
			{Path: "turning_angle", Kind: KindNumber},
			{Path: "step_size", Kind: KindNumber},
			{Path: "min_length", Kind: KindNumber},
			{Path: "max_length", Kind: KindNumber},
		},
	},
	{
		Software:    recon.SoftwareDSIStudio,
		Action:      recon.ActionConnectivity,
		InputSlots:  []string{"trk_file", "fibgz", "atlas_configs"},
		OutputSlots: []string{"matfile"},
		InnerNodes:  wrap("calc_connectivity", "ds_connectivity"),
		Params: []ParamRule{
			{Path: "connectivity_value", Kind: KindString},
			{Path: "connectivity_type", Kind: KindString},
		},
	},
	{
		Software:    recon.SoftwareDSIStudio,
		Action:      recon.ActionAutotrack,
		InputSlots:  []string{"fibgz"},
		OutputSlots: []string{"tck_files", "bundle_names", "recon_scalars"},
		InnerNodes:  wrap("actual_trk", "convert_to_tck", "aggregate_atk_results", "ds_tck_files", "ds_bundle_csv"),
		Params: []ParamRule{
			{Path: "track_id", Kind: KindString},
			{Path: "tolerance", Kind: KindString},
			{Path: "track_voxel_ratio", Kind: KindNumber},
			{Path: "yield_rate", Kind: KindNumber},
		},
	},
}
