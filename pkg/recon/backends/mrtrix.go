package backends

import (
	"slices"

	"github.com/ravi-parthasarathy/qsirecon/pkg/recon"
)

var mrtrixContracts = []*Contract{
	{
		Software:    recon.SoftwareMRTrix3,
		Action:      recon.ActionCSD,
		InputSlots:  slices.Concat(dwiSlots, []string{"qsiprep_5tt_hsvs"}),
		OutputSlots: []string{"fod_sh_mif", "wm_odf", "wm_txt", "gm_odf", "gm_txt", "csf_odf", "csf_txt"},
		InnerNodes: wrap(
			slices.Concat(
				[]string{"create_mif", "estimate_response", "estimate_fod", "intensity_norm", "ds_wm_odf", "ds_wm_txt"},
				reportNodes("peaks", "odfs"),
			)...,
		),
		Params: []ParamRule{
			{Path: "response.algorithm", Kind: KindString, Choices: []string{"dhollander", "msmt_5tt", "tournier", "tax", "fa", "manual"}},
			{Path: "fod.algorithm", Kind: KindString, Choices: []string{"csd", "msmt_csd", "ss3t"}},
			{Path: "fod.max_sh", Kind: KindArray},
			{Path: "mtnormalize", Kind: KindBool},
		},
	},
	{
		Software:    recon.SoftwareMRTrix3,
		Action:      recon.ActionGlobalTractography,
		InputSlots:  dwiSlots,
		OutputSlots: []string{"tck_file", "fod_sh_mif", "wm_odf", "gm_odf", "csf_odf", "isotropic_fraction"},
		InnerNodes: wrap(
			slices.Concat(
				[]string{"create_mif", "estimate_response", "tckglobal", "intensity_norm", "ds_tck", "ds_wm_odf"},
				reportNodes("peaks"),
			)...,
		),
		Params: []ParamRule{
			{Path: "tckglobal.niter", Kind: KindNumber},
			{Path: "mtnormalize", Kind: KindBool},
		},
		MaxThreads: 8,
	},
	{
		Software:    recon.SoftwareMRTrix3,
		Action:      recon.ActionTractography,
		InputSlots:  []string{"fod_sh_mif", "wm_odf", "dwi_mask", "qsiprep_5tt_hsvs"},
		OutputSlots: []string{"tck_file", "sift_weights", "mu_file"},
		InnerNodes:  wrap("tracking", "tck_sift2", "ds_tck", "ds_sift2", "ds_mu"),
		Params: []ParamRule{
			{Path: "tckgen.algorithm", Kind: KindString, Choices: []string{"iFOD2", "iFOD1", "SD_STREAM", "Tensor_Det", "Tensor_Prob"}},
			{Path: "tckgen.select", Kind: KindNumber},
			{Path: "use_5tt", Kind: KindBool},
			{Path: "method_5tt", Kind: KindString, Choices: []string{"hsvs"}},
			{Path: "use_sift2", Kind: KindBool},
		},
		Requires: map[string][]string{
			"use_5tt": {"has_qsiprep_5tt_hsvs", "has_mrtrix_5tt_hsvs"},
		},
	},
	{
		Software:    recon.SoftwareMRTrix3,
		Action:      recon.ActionConnectivity,
		InputSlots:  []string{"tck_file", "sift_weights", "atlas_configs"},
		OutputSlots: []string{"matfile"},
		InnerNodes:  wrap("calc_connectivity", "ds_connectivity"),
		Params: []ParamRule{
			{Path: "tck2connectome", Kind: KindArray},
		},
	},
}
