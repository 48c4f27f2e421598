package backends

import (
	"slices"

	"github.com/ravi-parthasarathy/qsirecon/pkg/recon"
)

var amicoContracts = []*Contract{
	{
		Software:    recon.SoftwareAMICO,
		Action:      recon.ActionFitNODDI,
		InputSlots:  dwiSlots,
		OutputSlots: []string{"directions_image", "icvf_image", "od_image", "isovf_image", "config_file", "fibgz"},
		InnerNodes: wrap(
			slices.Concat(
				[]string{"recon_noddi", "convert_to_fibgz", "ds_directions", "ds_icvf", "ds_od", "ds_isovf", "ds_config", "ds_fibgz"},
				reportNodes("noddi"),
			)...,
		),
		Params: []ParamRule{
			{Path: "isExvivo", Kind: KindBool},
			{Path: "dPar", Kind: KindNumber},
			{Path: "dIso", Kind: KindNumber},
		},
	},
}
