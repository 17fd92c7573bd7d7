package trackhub

import "text/template"

// Each template starts with a newline so that consecutive stanzas are
// separated by a blank line.
var templates = template.Must(template.New("trackhub").Parse(`
{{- define "hub"}}
hub {{.Sample}}-fiberseq
shortLabel {{.Sample}}-fiberseq
longLabel {{.Sample}}-fiberseq
genomesFile genomes.txt
{{- if .Email}}
email {{.Email}}
{{- end}}
{{end}}

{{- define "genomes"}}
genome {{.Reference}}
trackDb trackDb.txt
{{end}}

{{- define "bigBed"}}
track {{.Sample}}-{{.Name}}
shortLabel {{.Sample}}-{{.Name}}
longLabel {{.Sample}}-{{.Name}}
type bigBed
bigDataUrl {{.File}}
visibility dense
maxItems 100000
priority 30
{{end}}

{{- define "firePeaks"}}
track {{.Sample}}-FIRE-peaks
type bigNarrowPeak
bigDataUrl {{.File}}
shortLabel {{.Sample}}-FIRE-peaks
longLabel {{.Sample}}-FIRE-peaks
visibility dense
maxHeightPixels 50:50:1
priority 10
{{end}}

{{- define "hapDifferences"}}
track {{.Sample}}-hap-differences
type bigBed 9 +
itemRgb on
bigDataUrl {{.File}}
shortLabel {{.Sample}}-hap-differences
longLabel {{.Sample}}-hap-differences
visibility dense
maxHeightPixels 25:25:1
priority 20
{{end}}

{{- define "percentAccessibleComposite"}}
track {{.Sample}}-percent-accessible
shortLabel {{.Sample}}-percent-accessible
longLabel  {{.Sample}}-percent-accessible
graphTypeDefault points
aggregate transparentOverlay
container multiWig
aggregate none
showSubtrackColorOnUi on
type bigWig 0 1000
alwaysZero on
viewLimits 0:100
autoScale off
maxItems 100000
visibility full
maxHeightPixels 100:50:8
priority 100
{{end}}

{{- define "percentAccessible"}}
    track {{.Sample}}-{{.Hap}}-percent-accessible
    parent {{.Sample}}-percent-accessible
    shortLabel {{.Sample}}-{{.Hap}}-percent-accessible
    longLabel  {{.Sample}}-{{.Hap}}-percent-accessible
    bigDataUrl {{.File}}
    type bigWig
    visibility {{.Visibility}}
    color {{.Color}}
{{end}}

{{- define "fireScoreComposite"}}
track {{.Sample}}-FIRE-score
shortLabel {{.Sample}}-FIRE-score
longLabel  {{.Sample}}-FIRE-score
graphTypeDefault points
aggregate transparentOverlay
container multiWig
aggregate none
showSubtrackColorOnUi on
type bigWig 0 1000
alwaysZero on
viewLimits 0:100
autoScale off
maxItems 100000
visibility full
maxHeightPixels 100:50:8
priority 10
{{end}}

{{- define "fireScore"}}
    track {{.Sample}}-{{.Hap}}-FIRE-score
    parent {{.Sample}}-FIRE-score
    shortLabel {{.Sample}}-{{.Hap}}-FIRE-score
    longLabel  {{.Sample}}-{{.Hap}}-FIRE-score
    bigDataUrl {{.File}}
    type bigWig
    visibility {{.Visibility}}
    color {{.Color}}
{{end}}

{{- define "coverage"}}
track {{.Sample}}-{{.Hap}}-coverage
longLabel {{.Sample}}-{{.Hap}}-coverage
shortLabel {{.Sample}}-{{.Hap}}-coverage
container multiWig
aggregate stacked
showSubtrackColorOnUi on
type bigWig 0 1000
autoScale off
alwaysZero on
viewLimits 0:{{.UpperCoverage}}
visibility full
maxHeightPixels 100:50:8
priority 90

    track {{.Sample}}-{{.Hap}}-accessible
    parent {{.Sample}}-{{.Hap}}-coverage
    bigDataUrl bw/{{.Hap}}.fire.coverage.bw
    type bigWig
    color 139,0,0

    track {{.Sample}}-{{.Hap}}-linker
    parent {{.Sample}}-{{.Hap}}-coverage
    bigDataUrl bw/{{.Hap}}.linker.coverage.bw
    type bigWig
    color 147,112,219

    track {{.Sample}}-{{.Hap}}-nucleosome
    parent {{.Sample}}-{{.Hap}}-coverage
    bigDataUrl bw/{{.Hap}}.nucleosome.coverage.bw
    type bigWig
    color 169,169,169
{{end}}

{{- define "decoratedFibers"}}
track {{.Sample}}-{{.Hap}}-fibers
shortLabel {{.Sample}}-{{.Hap}}-fibers
longLabel {{.Sample}}-{{.Hap}}-fibers
visibility dense
type bigBed 12 +
itemRgb On
filterText.keywords {{.Hap}}
bigDataUrl bb/fire-fibers.bb
decorator.default.bigDataUrl bb/fire-fiber-decorators.bb
decorator.default.filterValues.keywords 5mC,m6A,NUC,LINKER,FIRE
decorator.default.filterValuesDefault.keywords LINKER,FIRE
priority 80
{{end}}

{{- define "fdr"}}
track {{.Sample}}-FIRE-FDR
compositeTrack on
shortLabel {{.Sample}}-FIRE-FDR
longLabel {{.Sample}}-FIRE-FDR
visibility full
type bigWig
maxItems 100000
maxHeightPixels 100:50:1
alwaysZero on
priority 10

    track {{.Sample}}-log-fdr
    parent {{.Sample}}-FIRE-FDR
    bigDataUrl {{.File}}
    shortLabel {{.Sample}} -10log10 FDR
    longLabel {{.Sample}} -10log10 FDR
    autoScale on
    visibility full
    yLineOnOff on
    yLineMark {{.YLine}}
    gridDefault on
{{end}}
`))
