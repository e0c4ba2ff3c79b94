package metrics

const Namespace = "transmute"
