package recon

import "slices"

// GlobalSourceName is the identifier of the pipeline's global source node.
const GlobalSourceName = "inputnode"

// ScanFields are the per-scan outputs of the preprocessing ingress.
var ScanFields = []string{
	"dwi_file",
	"bval_file",
	"bvec_file",
	"b_file",
	"btable_file",
	"confounds_file",
	"local_bvec_file",
	"mask_file",
	"dwi_ref",
	"qc_file",
}

// AnatomicalFields are the scan-specific anatomical inputs produced by the
// anatomical ingress.
var AnatomicalFields = []string{
	"t1_preproc",
	"t1_brain_mask",
	"t1_seg",
	"t1_aseg",
	"t1_aparc",
	"t1_2_mni",
	"mni_2_t1",
	"template_brain_mask",
	"fs_subjects_dir",
	"qsiprep_5tt_hsvs",
	"dwi_mask",
	"atlas_configs",
	"odf_rois",
	"resampling_template",
}

// DefaultInputFields returns the fields the global source exposes: scan
// fields followed by anatomical fields.
func DefaultInputFields() []string {
	return slices.Concat(ScanFields, AnatomicalFields)
}
