package backends

import (
	"slices"

	"github.com/ravi-parthasarathy/qsirecon/pkg/recon"
)

var dipyFitParams = []ParamRule{
	{Path: "radial_order", Kind: KindNumber},
	{Path: "write_mif", Kind: KindBool},
	{Path: "write_fibgz", Kind: KindBool},
}

var dipyContracts = []*Contract{
	{
		Software:    recon.SoftwareDipy,
		Action:      recon.Action3DSHORE,
		InputSlots:  dwiSlots,
		OutputSlots: []string{"fod_sh_mif", "fibgz", "rtop_file", "alpha_image", "directions_file"},
		InnerNodes: wrap(
			slices.Concat(
				[]string{"recon_3dshore", "ds_rtop", "ds_fibgz", "ds_fod_sh_mif"},
				reportNodes("peaks", "odfs"),
			)...,
		),
		Params: slices.Concat(dipyFitParams, []ParamRule{
			{Path: "regularization", Kind: KindString, Choices: []string{"L2", "L1"}},
			{Path: "lambdaN", Kind: KindNumber},
			{Path: "lambdaL", Kind: KindNumber},
			{Path: "extrapolate_scheme", Kind: KindString, Choices: []string{"HCP", "ABCD", "DSIQ5"}},
		}),
	},
	{
		Software:    recon.SoftwareDipy,
		Action:      recon.ActionMAPMRI,
		InputSlots:  dwiSlots,
		OutputSlots: []string{"fod_sh_mif", "fibgz", "rtop_file", "rtap_file", "rtpp_file", "msd_file", "qiv_file", "lapnorm_file", "ng_file", "ngpar_file", "ngperp_file"},
		InnerNodes: wrap(
			slices.Concat(
				[]string{"recon_map", "ds_rtop", "ds_rtap", "ds_rtpp", "ds_msd", "ds_qiv", "ds_lapnorm", "ds_ng", "ds_ngpar", "ds_ngperp", "ds_fibgz", "ds_fod_sh_mif"},
				reportNodes("peaks", "odfs"),
			)...,
		),
		Params: slices.Concat(dipyFitParams, []ParamRule{
			{Path: "laplacian_regularization", Kind: KindBool},
			{Path: "laplacian_weighting", Kind: KindNumber},
			{Path: "anisotropic_scaling", Kind: KindBool},
			{Path: "bval_threshold", Kind: KindNumber},
			{Path: "dti_scale_estimation", Kind: KindBool},
		}),
	},
	{
		Software:    recon.SoftwareDipy,
		Action:      recon.ActionDKI,
		InputSlots:  dwiSlots,
		OutputSlots: []string{"fa_file", "md_file", "rd_file", "ad_file", "mk_file", "ak_file", "rk_file", "mkt_file", "kfa_file"},
		InnerNodes: wrap(
			slices.Concat(
				[]string{"recon_dki", "ds_fa", "ds_md", "ds_rd", "ds_ad", "ds_mk", "ds_ak", "ds_rk", "ds_mkt", "ds_kfa"},
				reportNodes("peaks"),
			)...,
		),
		Params: []ParamRule{
			{Path: "write_mif", Kind: KindBool},
			{Path: "write_fibgz", Kind: KindBool},
		},
	},
}
