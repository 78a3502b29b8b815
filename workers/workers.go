package workers

// set by the HTTP worker on shutdown, polled by the loop workers
var WorkerShutdown = false
